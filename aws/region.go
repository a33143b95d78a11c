package aws

import "strings"

// Region names an AWS region. Known constants are provided for
// convenience but Region is just a string — callers may pass any value,
// including regions this module doesn't know about yet (the "other"
// escape hatch spec.md §3 calls for).
type Region string

const (
	RegionUSEast1      Region = "us-east-1"
	RegionUSEast2      Region = "us-east-2"
	RegionUSWest1      Region = "us-west-1"
	RegionUSWest2      Region = "us-west-2"
	RegionEUWest1      Region = "eu-west-1"
	RegionEUCentral1   Region = "eu-central-1"
	RegionAPSoutheast1 Region = "ap-southeast-1"
	RegionAPNortheast1 Region = "ap-northeast-1"
	RegionCNNorth1     Region = "cn-north-1"
	RegionUSGovWest1   Region = "us-gov-west-1"
)

// String renders the region name.
func (r Region) String() string { return string(r) }

// Partition is an AWS partition: a disjoint namespace of regions sharing
// a DNS suffix and a set of service endpoints.
type Partition string

const (
	PartitionAWS      Partition = "aws"
	PartitionAWSCN    Partition = "aws-cn"
	PartitionAWSUSGov Partition = "aws-us-gov"
	PartitionAWSISO   Partition = "aws-iso"
	PartitionAWSISOB  Partition = "aws-iso-b"
)

// DefaultRegion returns the partition's conventional default region, used
// when no region is otherwise configured.
func (p Partition) DefaultRegion() Region {
	switch p {
	case PartitionAWSCN:
		return RegionCNNorth1
	case PartitionAWSUSGov:
		return RegionUSGovWest1
	default:
		return RegionUSEast1
	}
}

// DNSSuffix returns the domain suffix endpoints in this partition share.
func (p Partition) DNSSuffix() string {
	switch p {
	case PartitionAWSCN:
		return "amazonaws.com.cn"
	case PartitionAWSISO:
		return "c2s.ic.gov"
	case PartitionAWSISOB:
		return "sc2s.sgov.gov"
	default:
		return "amazonaws.com"
	}
}

// PartitionForRegion infers the owning partition from a region name's
// conventional prefix. Unknown regions default to the public aws partition.
func PartitionForRegion(r Region) Partition {
	switch {
	case strings.HasPrefix(string(r), "cn-"):
		return PartitionAWSCN
	case strings.HasPrefix(string(r), "us-gov-"):
		return PartitionAWSUSGov
	case strings.HasPrefix(string(r), "us-iso-"):
		return PartitionAWSISO
	case strings.HasPrefix(string(r), "us-isob-"):
		return PartitionAWSISOB
	default:
		return PartitionAWS
	}
}
