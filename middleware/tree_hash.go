package middleware

import (
	"bytes"
	"io"

	"github.com/alexander-sdk/core/internal/hash"
	"github.com/alexander-sdk/core/transport"
)

// treeHashChunkSize is Glacier's fixed 1 MiB tree-hash leaf size.
const treeHashChunkSize = 1 << 20

// TreeHashMiddleware computes the Glacier SHA-256 tree hash of the
// request body and sets the `x-amz-sha256-tree-hash` header (spec.md
// §4.5).
func TreeHashMiddleware() Middleware {
	return Middleware{
		Name: "TreeHash",
		OnRequest: func(req transport.Request, ctx Context) (transport.Request, error) {
			if req.Body == nil {
				return req, nil
			}
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return req, err
			}
			req.Body = bytes.NewReader(body)

			treeHash := computeTreeHash(body)
			if req.Headers == nil {
				req.Headers = map[string]string{}
			}
			req.Headers["x-amz-sha256-tree-hash"] = treeHash
			return req, nil
		},
	}
}

// computeTreeHash builds Glacier's binary Merkle tree of 1 MiB leaf
// SHA-256 digests, folding pairs until one root digest remains.
func computeTreeHash(body []byte) string {
	if len(body) == 0 {
		return hash.SHA256([]byte{}).String()
	}

	var level []hash.Digest
	for offset := 0; offset < len(body); offset += treeHashChunkSize {
		end := offset + treeHashChunkSize
		if end > len(body) {
			end = len(body)
		}
		level = append(level, hash.SHA256(body[offset:end]))
	}

	for len(level) > 1 {
		var next []hash.Digest
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				combined := append(append([]byte{}, level[i]...), level[i+1]...)
				next = append(next, hash.SHA256(combined))
			} else {
				next = append(next, level[i])
			}
		}
		level = next
	}
	return level[0].String()
}
