package bucket

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhost/b2store/pkg/b2api"
)

type fakeSession struct {
	restrictionID   string
	restrictionName string
}

func (f *fakeSession) HasBucketRestriction(bucketID string) bool {
	return f.restrictionID != "" && f.restrictionID == bucketID
}

func (f *fakeSession) Restriction() (string, string, bool) {
	if f.restrictionID == "" {
		return "", "", false
	}
	return f.restrictionID, f.restrictionName, true
}

func (f *fakeSession) Auth() b2api.Auth {
	return b2api.Auth{APIURL: "https://api.example.com", Token: "t"}
}

func (f *fakeSession) AccountID() string { return "acct_1" }

type fakeLister struct {
	calls   int
	buckets []b2api.Bucket
	err     error
}

func (f *fakeLister) ListBuckets(_ context.Context, _ b2api.Auth, _, _ string) (*b2api.ListBucketsResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &b2api.ListBucketsResponse{Buckets: f.buckets}, nil
}

func TestResolve_ExplicitConfigSkipsNetwork(t *testing.T) {
	lister := &fakeLister{}

	resolved, err := Resolve(context.Background(), "012345", "my_bucket", &fakeSession{}, lister, nil)
	require.NoError(t, err)

	assert.Equal(t, Resolved{ID: "012345", Name: "my_bucket"}, resolved)
	assert.Zero(t, lister.calls)
}

func TestResolve_KeyRestrictionSkipsLookup(t *testing.T) {
	lister := &fakeLister{}
	sess := &fakeSession{restrictionID: "012345", restrictionName: "restricted_bucket"}

	resolved, err := Resolve(context.Background(), "012345", "", sess, lister, nil)
	require.NoError(t, err)

	assert.Equal(t, Resolved{ID: "012345", Name: "restricted_bucket"}, resolved)
	assert.Zero(t, lister.calls)
}

func TestResolve_RemoteLookupTakesFirstEntry(t *testing.T) {
	lister := &fakeLister{buckets: []b2api.Bucket{
		{BucketID: "012345", BucketName: "my_bucket"},
	}}

	resolved, err := Resolve(context.Background(), "012345", "", &fakeSession{}, lister, nil)
	require.NoError(t, err)

	assert.Equal(t, Resolved{ID: "012345", Name: "my_bucket"}, resolved)
	assert.Equal(t, 1, lister.calls)
}

func TestResolve_EmptyLookupIsBucketNotFound(t *testing.T) {
	lister := &fakeLister{}

	_, err := Resolve(context.Background(), "012345", "", &fakeSession{}, lister, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBucketNotFound))
}

func TestResolve_LookupErrorPropagates(t *testing.T) {
	lister := &fakeLister{err: errors.New("listBuckets capability missing")}

	_, err := Resolve(context.Background(), "012345", "", &fakeSession{}, lister, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBucketNotFound))
}

func TestResolve_MismatchedRestrictionFallsThrough(t *testing.T) {
	lister := &fakeLister{buckets: []b2api.Bucket{{BucketID: "012345", BucketName: "my_bucket"}}}
	sess := &fakeSession{restrictionID: "999999", restrictionName: "other_bucket"}

	resolved, err := Resolve(context.Background(), "012345", "", sess, lister, nil)
	require.NoError(t, err)

	assert.Equal(t, "my_bucket", resolved.Name)
	assert.Equal(t, 1, lister.calls)
}
