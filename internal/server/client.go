package server

import (
	"context"

	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/analyzer"
	coregrpc "github.com/msto63/yarnscan/pkg/core/grpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote analyzer service
type Client struct {
	conn *grpc.ClientConn
}

// NewClient wraps an established connection
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Analyze runs a remote analysis. Checkpoints are not transferred.
func (c *Client) Analyze(ctx context.Context, name, source string) (*analyzer.Report, error) {
	var report analyzer.Report
	if err := c.call(ctx, MethodAnalyze, map[string]interface{}{"name": name, "source": source}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Check runs a remote balance check. An unbalanced source fails with
// CodeUnbalanced.
func (c *Client) Check(ctx context.Context, name, source string) (*analyzer.Report, error) {
	var report analyzer.Report
	if err := c.call(ctx, MethodCheck, map[string]interface{}{"name": name, "source": source}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Resume continues a remote run at line
func (c *Client) Resume(ctx context.Context, runID string, line int, source string) ([]tokenizer.Token, error) {
	var result ResumeResult
	req := map[string]interface{}{"run_id": runID, "line": line, "source": source}
	if err := c.call(ctx, MethodResume, req, &result); err != nil {
		return nil, err
	}
	return result.Tokens, nil
}

func (c *Client) call(ctx context.Context, method string, req map[string]interface{}, out interface{}) error {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, reply); err != nil {
		return coregrpc.FromStatus(err)
	}
	return fromStruct(reply, out)
}
