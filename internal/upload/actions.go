package upload

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// artifactService is the Twirp service of the Actions results API.
const artifactService = "/twirp/github.actions.results.api.v1.ArtifactService/"

// artifactVersion is the artifact backend version the requests are for.
const artifactVersion = 4

const maxErrorBody = 512

// ActionsUploader uploads bundles to the GitHub Actions artifact service:
// the bundle is created, a zip archive of the files is stored at the
// signed URL returned for it, and the bundle is finalized with the archive
// size and hash.
type ActionsUploader struct {
	baseURL    string
	token      string
	runID      string
	jobID      string
	httpClient *http.Client
}

// ActionsOption configures an ActionsUploader.
type ActionsOption func(*ActionsUploader)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ActionsOption {
	return func(u *ActionsUploader) {
		u.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ActionsOption {
	return func(u *ActionsUploader) {
		u.httpClient = hc
	}
}

// NewActionsUploader creates an ActionsUploader from ACTIONS_RESULTS_URL
// and ACTIONS_RUNTIME_TOKEN. The workflow run and job backend ids are read
// from the token.
func NewActionsUploader(resultsURL, runtimeToken string, opts ...ActionsOption) (*ActionsUploader, error) {
	u, err := url.Parse(resultsURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid results URL %q", resultsURL)
	}

	runID, jobID, err := backendIDs(runtimeToken)
	if err != nil {
		return nil, err
	}

	up := &ActionsUploader{
		baseURL: u.Scheme + "://" + u.Host,
		token:   runtimeToken,
		runID:   runID,
		jobID:   jobID,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(up)
	}
	return up, nil
}

// backendIDs extracts the ids from the "Actions.Results:<run>:<job>" scope
// of the runtime token. The token signature is not verified.
func backendIDs(token string) (runID, jobID string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("%w: not a JWT", ErrInvalidRuntimeToken)
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidRuntimeToken, err)
	}

	var claims struct {
		Scope string `json:"scp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidRuntimeToken, err)
	}

	for _, scope := range strings.Fields(claims.Scope) {
		s := strings.Split(scope, ":")
		if len(s) == 3 && s[0] == "Actions.Results" && s[1] != "" && s[2] != "" {
			return s[1], s[2], nil
		}
	}
	return "", "", fmt.Errorf("%w: no Actions.Results scope", ErrInvalidRuntimeToken)
}

type createArtifactRequest struct {
	WorkflowRunBackendID    string `json:"workflowRunBackendId"`
	WorkflowJobRunBackendID string `json:"workflowJobRunBackendId"`
	Name                    string `json:"name"`
	Version                 int    `json:"version"`
}

type createArtifactResponse struct {
	OK              bool   `json:"ok"`
	SignedUploadURL string `json:"signedUploadUrl"`
}

type finalizeArtifactRequest struct {
	WorkflowRunBackendID    string `json:"workflowRunBackendId"`
	WorkflowJobRunBackendID string `json:"workflowJobRunBackendId"`
	Name                    string `json:"name"`
	Size                    string `json:"size"`
	Hash                    string `json:"hash"`
}

type finalizeArtifactResponse struct {
	OK         bool   `json:"ok"`
	ArtifactID string `json:"artifactId"`
}

// Upload creates the artifact, stores a zip archive of files and finalizes
// the artifact.
func (u *ActionsUploader) Upload(ctx context.Context, name string, files []string, rootDir string) (*Result, error) {
	entries, err := resolveEntries(name, files, rootDir)
	if err != nil {
		return nil, err
	}

	archive, err := zipEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	sum := sha256.Sum256(archive)

	var created createArtifactResponse
	err = u.twirp(ctx, "CreateArtifact", createArtifactRequest{
		WorkflowRunBackendID:    u.runID,
		WorkflowJobRunBackendID: u.jobID,
		Name:                    name,
		Version:                 artifactVersion,
	}, &created)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	if !created.OK || created.SignedUploadURL == "" {
		return nil, fmt.Errorf("%w: CreateArtifact", ErrRejected)
	}

	if err := u.putBlob(ctx, created.SignedUploadURL, archive); err != nil {
		return nil, fmt.Errorf("failed to store archive: %w", err)
	}

	var finalized finalizeArtifactResponse
	err = u.twirp(ctx, "FinalizeArtifact", finalizeArtifactRequest{
		WorkflowRunBackendID:    u.runID,
		WorkflowJobRunBackendID: u.jobID,
		Name:                    name,
		Size:                    strconv.Itoa(len(archive)),
		Hash:                    "sha256:" + hex.EncodeToString(sum[:]),
	}, &finalized)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize artifact: %w", err)
	}
	if !finalized.OK {
		return nil, fmt.Errorf("%w: FinalizeArtifact", ErrRejected)
	}

	return &Result{
		Name:     name,
		ID:       finalized.ArtifactID,
		Size:     int64(len(archive)),
		Location: name,
		Files:    len(entries),
	}, nil
}

func (u *ActionsUploader) twirp(ctx context.Context, method string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+artifactService+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	data, err := u.do(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (u *ActionsUploader) putBlob(ctx context.Context, signedURL string, archive []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, bytes.NewReader(archive))
	if err != nil {
		return err
	}
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", "application/zip")
	req.ContentLength = int64(len(archive))

	_, err = u.do(req)
	return err
}

// do sends req and returns the body of a 2xx response, or an *APIError.
func (u *ActionsUploader) do(req *http.Request) ([]byte, error) {
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, err
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return io.ReadAll(resp.Body)
}

// zipEntries writes entries into an in-memory zip archive under their
// relative paths.
func zipEntries(entries []entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		if err := addToZip(zw, e); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addToZip(zw *zip.Writer, e entry) error {
	f, err := os.Open(e.path) //nolint:gosec // path checked against the root directory
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = e.rel
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
