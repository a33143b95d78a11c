package v4

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/alexander-sdk/core/internal/hash"
)

// ChunkSigner produces the chunk-signature for each frame of a chunked
// (streaming) upload, per spec.md §4.2's chunked-signing paragraph. Each
// chunk's string-to-sign payload line is
// `previous_signature LF hex(sha256("")) LF hex(sha256(chunk_bytes))`,
// seeded from the headers' signature (the "seed signature").
//
// A ChunkSigner is stateful — it must be driven in order, one chunk at a
// time — so unlike Signer it is not safe for concurrent use.
type ChunkSigner struct {
	signer            *Signer
	dateStamp         string
	amzDate           string
	previousSignature string
}

// NewChunkSigner starts a chunked signing session, seeded with the
// signature produced when the initial (header-form) request was signed.
func NewChunkSigner(signer *Signer, date time.Time, seedSignature string) *ChunkSigner {
	return &ChunkSigner{
		signer:            signer,
		dateStamp:         date.UTC().Format(DateFormat),
		amzDate:           date.UTC().Format(ISO8601BasicFormat),
		previousSignature: seedSignature,
	}
}

// SignChunk computes the signature for the next chunk and advances the
// session so the following call chains from this chunk's signature.
func (c *ChunkSigner) SignChunk(chunk []byte) (string, error) {
	emptyHash := hex.EncodeToString(hash.SHA256(nil))
	chunkHash := hex.EncodeToString(hash.SHA256(chunk))

	scope := credentialScope(c.dateStamp, c.signer.Region, c.signer.ServiceName)
	payload := c.previousSignature + "\n" + emptyHash + "\n" + chunkHash
	stringToSign := StreamingPayload + "\n" + c.amzDate + "\n" + scope + "\n" + payload

	signingKey, err := c.signer.deriveSigningKey(c.dateStamp)
	if err != nil {
		return "", err
	}
	signature := hex.EncodeToString(hash.AuthenticationCode(signingKey, []byte(stringToSign)))
	c.previousSignature = signature
	return signature, nil
}

// FrameChunk wraps a chunk in the wire framing AWS chunked uploads use:
// `hex(chunk_size);chunk-signature=<sig> CRLF <bytes> CRLF`.
func FrameChunk(chunk []byte, signature string) []byte {
	header := fmt.Sprintf("%x;chunk-signature=%s\r\n", len(chunk), signature)
	out := make([]byte, 0, len(header)+len(chunk)+2)
	out = append(out, header...)
	out = append(out, chunk...)
	out = append(out, '\r', '\n')
	return out
}

// FinalChunk is the zero-length terminating frame every chunked body ends
// with.
func FinalChunk(signature string) []byte {
	return FrameChunk(nil, signature)
}

// ChunkReader wraps an io.Reader, framing and signing it lazily in
// fixed-size chunks as it's read — the streaming form spec.md marks as
// "used only when explicitly requested by a service middleware for large
// PUT bodies".
type ChunkReader struct {
	src       io.Reader
	signer    *ChunkSigner
	chunkSize int
	buf       []byte
	pending   []byte
	done      bool
}

// NewChunkReader returns a reader that yields the fully-framed,
// signed chunked body for src.
func NewChunkReader(src io.Reader, signer *ChunkSigner, chunkSize int) *ChunkReader {
	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}
	return &ChunkReader{src: src, signer: signer, chunkSize: chunkSize, buf: make([]byte, chunkSize)}
}

func (r *ChunkReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}
		n, err := io.ReadFull(r.src, r.buf)
		if n > 0 {
			chunk := r.buf[:n]
			sig, sigErr := r.signer.SignChunk(chunk)
			if sigErr != nil {
				return 0, sigErr
			}
			r.pending = FrameChunk(chunk, sig)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.done = true
			finalSig, sigErr := r.signer.SignChunk(nil)
			if sigErr != nil {
				return 0, sigErr
			}
			r.pending = append(r.pending, FinalChunk(finalSig)...)
		} else if err != nil {
			return 0, err
		}
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
