// Package databricks is a minimal REST client for the Databricks workspace
// API. It covers only what the session lifecycle needs: cluster state
// queries, SQL statement execution, and a lightweight auth ping. The wire
// protocol and auth scheme belong to the workspace; this package just maps
// its failures onto the ConnectionError / TimeoutError taxonomy.
package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Cluster states returned by the workspace API.
const (
	ClusterRunning    = "RUNNING"
	ClusterPending    = "PENDING"
	ClusterTerminated = "TERMINATED"
)

// Client talks to a single workspace with a single bearer token.
type Client struct {
	host  string
	token string
	httpc *http.Client
}

// NewClient creates a workspace client. The per-request transport timeout is
// a transport guard only; lifecycle deadlines come from the caller's context.
func NewClient(host, token string) *Client {
	return &Client{
		host:  strings.TrimRight(host, "/"),
		token: token,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

// StatementResult holds the columns and rows of an executed SQL statement.
// Cell values arrive from the API as strings.
type StatementResult struct {
	Columns []string
	Rows    [][]string
}

type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type clusterGetResponse struct {
	ClusterID string `json:"cluster_id"`
	State     string `json:"state"`
}

type statementRequest struct {
	ClusterID   string `json:"cluster_id"`
	Statement   string `json:"statement"`
	WaitTimeout string `json:"wait_timeout,omitempty"`
}

type statementResponse struct {
	Status struct {
		State string `json:"state"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"status"`
	Manifest struct {
		Schema struct {
			Columns []struct {
				Name string `json:"name"`
			} `json:"columns"`
		} `json:"schema"`
	} `json:"manifest"`
	Result struct {
		DataArray [][]string `json:"data_array"`
	} `json:"result"`
}

// ClusterState returns the current state of the cluster, e.g. "RUNNING" or
// "PENDING".
func (c *Client) ClusterState(ctx context.Context, clusterID string) (string, error) {
	const op = "cluster state"
	start := time.Now()

	var resp clusterGetResponse
	url := fmt.Sprintf("%s/api/2.0/clusters/get?cluster_id=%s", c.host, clusterID)
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return "", classify(op, start, err)
	}
	if resp.State == "" {
		return "", &ConnectionError{Op: op, Err: errors.New("cluster state not found in response")}
	}
	return resp.State, nil
}

// ExecuteStatement runs a SQL statement against the cluster and returns its
// result set.
func (c *Client) ExecuteStatement(ctx context.Context, clusterID, sql string) (*StatementResult, error) {
	const op = "execute statement"
	start := time.Now()

	body := statementRequest{ClusterID: clusterID, Statement: sql, WaitTimeout: "30s"}
	var resp statementResponse
	url := c.host + "/api/2.0/sql/statements"
	if err := c.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, classify(op, start, err)
	}
	if resp.Status.State != "SUCCEEDED" {
		msg := "statement state " + resp.Status.State
		if resp.Status.Error != nil {
			msg = resp.Status.Error.Message
		}
		return nil, &ConnectionError{Op: op, Err: errors.New(msg)}
	}

	result := &StatementResult{Rows: resp.Result.DataArray}
	for _, col := range resp.Manifest.Schema.Columns {
		result.Columns = append(result.Columns, col.Name)
	}
	return result, nil
}

// Ping verifies that the workspace is reachable and the token accepted. It
// is used by healthchecks with a short caller-supplied deadline.
func (c *Client) Ping(ctx context.Context) error {
	const op = "ping"
	start := time.Now()
	if err := c.do(ctx, http.MethodGet, c.host+"/api/2.0/preview/scim/v2/Me", nil, nil); err != nil {
		return classify(op, start, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &ae) == nil && ae.Message != "" {
			return fmt.Errorf("%s: %s (%s)", resp.Status, ae.Message, ae.ErrorCode)
		}
		return errors.New(resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// classify maps a transport failure onto the error taxonomy: context
// deadline exhaustion becomes TimeoutError, everything else ConnectionError.
func classify(op string, start time.Time, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Elapsed: time.Since(start).Round(time.Millisecond)}
	}
	return &ConnectionError{Op: op, Err: err}
}
