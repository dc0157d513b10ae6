package upload

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhost/b2store/pkg/b2api"
)

var errExpired = &b2api.APIError{Status: http.StatusUnauthorized, Code: b2api.CodeExpiredAuthToken}

type fakeSession struct {
	reauths  int
	reauthEr error
}

func (f *fakeSession) Auth() b2api.Auth { return b2api.Auth{APIURL: "https://api.example.com", Token: "t"} }

func (f *fakeSession) Reauthorize(_ context.Context) error {
	f.reauths++
	return f.reauthEr
}

// fakeClient scripts the outcome of successive GetUploadURL calls and a
// single UploadFile outcome.
type fakeClient struct {
	targetErrs  []error
	targetCalls int
	uploadErr   error
	uploadCalls int
	uploadedAs  string
}

func (f *fakeClient) GetUploadURL(_ context.Context, _ b2api.Auth, _ string) (*b2api.UploadTarget, error) {
	idx := f.targetCalls
	f.targetCalls++
	if idx < len(f.targetErrs) && f.targetErrs[idx] != nil {
		return nil, f.targetErrs[idx]
	}
	return &b2api.UploadTarget{UploadURL: "https://pod.example.com/upload", AuthorizationToken: "upload_token"}, nil
}

func (f *fakeClient) UploadFile(_ context.Context, _ *b2api.UploadTarget, fileName string, _ []byte, _ string) (*b2api.FileVersion, error) {
	f.uploadCalls++
	f.uploadedAs = fileName
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &b2api.FileVersion{FileID: "file_1", FileName: fileName}, nil
}

const baseURL = "https://f002.example.com/file/my_bucket"

func TestUpload_Success(t *testing.T) {
	client := &fakeClient{}
	sess := &fakeSession{}
	c := New(client, sess, "012345", baseURL, nil)

	url, err := c.Upload(context.Background(), []byte("data"), "images/a.png")
	require.NoError(t, err)

	assert.Equal(t, baseURL+"/images/a.png", url)
	assert.Equal(t, 1, client.targetCalls)
	assert.Equal(t, 1, client.uploadCalls)
	assert.Zero(t, sess.reauths)
}

func TestUpload_ExpiredTokenRetriesExactlyOnce(t *testing.T) {
	client := &fakeClient{targetErrs: []error{errExpired}}
	sess := &fakeSession{}
	c := New(client, sess, "012345", baseURL, nil)

	url, err := c.Upload(context.Background(), []byte("data"), "images/a.png")
	require.NoError(t, err)

	assert.Equal(t, baseURL+"/images/a.png", url)
	assert.Equal(t, 1, sess.reauths)
	assert.Equal(t, 2, client.targetCalls)
	assert.Equal(t, 1, client.uploadCalls)
}

func TestUpload_SecondExpiryFailsWithoutLooping(t *testing.T) {
	client := &fakeClient{targetErrs: []error{errExpired, errExpired}}
	sess := &fakeSession{}
	c := New(client, sess, "012345", baseURL, nil)

	_, err := c.Upload(context.Background(), []byte("data"), "images/a.png")
	require.Error(t, err)

	assert.Equal(t, ReasonAuthExpired, ReasonOf(err))
	assert.Equal(t, 1, sess.reauths)
	assert.Equal(t, 2, client.targetCalls)
	assert.Zero(t, client.uploadCalls)
}

func TestUpload_NonAuthTargetErrorDoesNotRetry(t *testing.T) {
	client := &fakeClient{targetErrs: []error{
		&b2api.APIError{Status: http.StatusServiceUnavailable, Code: "service_unavailable"},
	}}
	sess := &fakeSession{}
	c := New(client, sess, "012345", baseURL, nil)

	_, err := c.Upload(context.Background(), []byte("data"), "images/a.png")
	require.Error(t, err)

	assert.Equal(t, ReasonProviderRejected, ReasonOf(err))
	assert.Zero(t, sess.reauths)
	assert.Equal(t, 1, client.targetCalls)
}

func TestUpload_ProviderRejectionOnTransfer(t *testing.T) {
	client := &fakeClient{uploadErr: &b2api.APIError{Status: http.StatusRequestEntityTooLarge, Code: "file_too_large"}}
	c := New(client, &fakeSession{}, "012345", baseURL, nil)

	_, err := c.Upload(context.Background(), []byte("data"), "images/a.png")
	require.Error(t, err)
	assert.Equal(t, ReasonProviderRejected, ReasonOf(err))
}

func TestUpload_TransportFailure(t *testing.T) {
	client := &fakeClient{uploadErr: errors.New("connection reset")}
	c := New(client, &fakeSession{}, "012345", baseURL, nil)

	_, err := c.Upload(context.Background(), []byte("data"), "images/a.png")
	require.Error(t, err)
	assert.Equal(t, ReasonTransportFailure, ReasonOf(err))
}

func TestUpload_ReauthorizationFailurePropagates(t *testing.T) {
	client := &fakeClient{targetErrs: []error{errExpired}}
	sess := &fakeSession{reauthEr: errors.New("bad credentials")}
	c := New(client, sess, "012345", baseURL, nil)

	_, err := c.Upload(context.Background(), []byte("data"), "images/a.png")
	require.Error(t, err)

	assert.Equal(t, 1, sess.reauths)
	assert.Equal(t, 1, client.targetCalls)
	assert.Zero(t, client.uploadCalls)
}
