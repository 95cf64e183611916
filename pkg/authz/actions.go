// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package authz

// AccessType is the coarse permission asserted by a policy item.
type AccessType string

const (
	AccessRead   AccessType = "read"
	AccessWrite  AccessType = "write"
	AccessDelete AccessType = "delete"
	AccessList   AccessType = "list"
	AccessAdmin  AccessType = "admin"
)

// Action verbs carry the "s3:" prefix as written by the storage server;
// the mapper matches the full token.
var s3ReadActions = []string{
	"s3:GetObject",
	"s3:GetObjectAcl",
	"s3:GetObjectTagging",
	"s3:GetObjectVersion",
	"s3:GetObjectVersionAcl",
	"s3:GetObjectVersionTagging",
	"s3:GetBucketAcl",
	"s3:GetBucketCORS",
	"s3:GetBucketLocation",
	"s3:GetBucketLogging",
	"s3:GetBucketNotification",
	"s3:GetBucketPolicy",
	"s3:GetBucketRequestPayment",
	"s3:GetBucketTagging",
	"s3:GetBucketVersioning",
	"s3:GetBucketWebsite",
	"s3:GetLifecycleConfiguration",
	"s3:GetReplicationConfiguration",
}

var s3ListActions = []string{
	"s3:ListBucket",
	"s3:ListBucketVersions",
	"s3:ListAllMyBuckets",
	"s3:ListMultipartUploadParts",
	"s3:ListBucketMultipartUploads",
	"s3:ListObjectsV2",
}

var s3WriteActions = []string{
	"s3:PutObject",
	"s3:PutObjectAcl",
	"s3:PutObjectTagging",
	"s3:PutObjectVersionAcl",
	"s3:PutObjectVersionTagging",
	"s3:PutBucketAcl",
	"s3:PutBucketCORS",
	"s3:PutBucketLogging",
	"s3:PutBucketNotification",
	"s3:PutBucketPolicy",
	"s3:PutBucketRequestPayment",
	"s3:PutBucketTagging",
	"s3:PutBucketVersioning",
	"s3:PutBucketWebsite",
	"s3:PutLifecycleConfiguration",
	"s3:PutReplicationConfiguration",
	"s3:RestoreObject",
	"s3:CreateBucket",
}

var s3DeleteActions = []string{
	"s3:DeleteObject",
	"s3:DeleteObjectVersion",
	"s3:DeleteBucket",
	"s3:DeleteObjectTagging",
	"s3:DeleteObjectVersionTagging",
	"s3:AbortMultipartUpload",
}

var actionTable = buildActionTable()

func buildActionTable() map[string]AccessType {
	table := make(map[string]AccessType, 64)
	for _, a := range s3ReadActions {
		table[a] = AccessRead
	}
	for _, a := range s3ListActions {
		table[a] = AccessList
	}
	for _, a := range s3WriteActions {
		table[a] = AccessWrite
	}
	for _, a := range s3DeleteActions {
		table[a] = AccessDelete
	}
	return table
}

// MapAction maps an S3 action verb to its access type. Unknown verbs map
// to admin, which only a ROLE_SYS_ADMIN subject can exercise.
func MapAction(action string) AccessType {
	if t, ok := actionTable[action]; ok {
		return t
	}
	return AccessAdmin
}
