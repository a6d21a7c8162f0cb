// ============================================================================
// yarnscan - Yarn Indentation Scanner
// ============================================================================
//
// Package:     server
// Description: gRPC analyzer service. Requests and replies travel as
//              google.protobuf.Struct so the service needs no generated
//              stubs; the service descriptor is declared by hand.
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"encoding/json"
	"math"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
	"github.com/msto63/yarnscan/foundation/yarn/tokenizer"
	"github.com/msto63/yarnscan/internal/analyzer"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "yarnscan.v1.Analyzer"

// Full method names
const (
	MethodAnalyze = "/" + ServiceName + "/Analyze"
	MethodCheck   = "/" + ServiceName + "/Check"
	MethodResume  = "/" + ServiceName + "/Resume"
)

// AnalyzerServer is the server API of the analyzer service
type AnalyzerServer interface {
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Check(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Resume(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// AnalyzerServiceDesc describes the analyzer service for grpc.Server
var AnalyzerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyzerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: unaryHandler(MethodAnalyze, AnalyzerServer.Analyze)},
		{MethodName: "Check", Handler: unaryHandler(MethodCheck, AnalyzerServer.Check)},
		{MethodName: "Resume", Handler: unaryHandler(MethodResume, AnalyzerServer.Resume)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "yarnscan/v1/analyzer.proto",
}

// RegisterAnalyzerServer registers the analyzer service on s
func RegisterAnalyzerServer(s grpc.ServiceRegistrar, srv AnalyzerServer) {
	s.RegisterService(&AnalyzerServiceDesc, srv)
}

type method func(AnalyzerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call method) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AnalyzerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AnalyzerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AnalyzerService implements AnalyzerServer on top of the analysis service
type AnalyzerService struct {
	analyzer *analyzer.Service
}

// NewAnalyzerService creates the gRPC facade for svc
func NewAnalyzerService(svc *analyzer.Service) *AnalyzerService {
	return &AnalyzerService{analyzer: svc}
}

// Analyze tokenizes {name, source} and replies with the report
func (s *AnalyzerService) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, source, err := sourceRequest(req, "server.Analyze")
	if err != nil {
		return nil, err
	}
	report, err := s.analyzer.Analyze(ctx, name, source)
	if err != nil {
		return nil, err
	}
	return reportStruct(report, true)
}

// Check replies with the report of a balanced source and fails with
// FailedPrecondition otherwise
func (s *AnalyzerService) Check(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, source, err := sourceRequest(req, "server.Check")
	if err != nil {
		return nil, err
	}
	report, err := s.analyzer.Check(ctx, name, source)
	if err != nil {
		return nil, err
	}
	return reportStruct(report, false)
}

// Resume continues {run_id, line, source} from the recorded checkpoint
func (s *AnalyzerService) Resume(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	runID := fields["run_id"].GetStringValue()
	source := fields["source"].GetStringValue()
	if runID == "" {
		return nil, mdwerror.New("run_id is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.Resume")
	}
	line, err := lineField(fields["line"])
	if err != nil {
		return nil, err
	}

	tokens, err := s.analyzer.ResumeFrom(ctx, runID, line, source)
	if err != nil {
		return nil, err
	}
	return toStruct(ResumeResult{RunID: runID, Line: line, Tokens: tokens})
}

// lineField reads a 1-based line number. Fractions, values below 1 and
// values beyond int32 are rejected.
func lineField(v *structpb.Value) (int, error) {
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, mdwerror.New("line must be a number").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.Resume")
	}
	f := num.NumberValue
	if f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, mdwerror.New("line must be a positive integer").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("server.Resume").
			WithDetail("line", f)
	}
	return int(f), nil
}

// ResumeResult is the reply of the Resume method
type ResumeResult struct {
	RunID  string            `json:"run_id"`
	Line   int               `json:"line"`
	Tokens []tokenizer.Token `json:"tokens"`
}

func sourceRequest(req *structpb.Struct, op string) (name, source string, err error) {
	fields := req.GetFields()
	if _, ok := fields["source"]; !ok {
		return "", "", mdwerror.New("source is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op)
	}
	name = fields["name"].GetStringValue()
	if name == "" {
		name = "<request>"
	}
	return name, fields["source"].GetStringValue(), nil
}

// reportStruct encodes a report. Checkpoint blobs stay in the journal; the
// token stream is included on request.
func reportStruct(report *analyzer.Report, withTokens bool) (*structpb.Struct, error) {
	out := *report
	out.Checkpoints = nil
	if !withTokens {
		out.Tokens = nil
	}
	return toStruct(out)
}

// toStruct converts a JSON-tagged value into a Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode reply").WithCode(mdwerror.CodeInternal)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode reply").WithCode(mdwerror.CodeInternal)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode reply").WithCode(mdwerror.CodeInternal)
	}
	return st, nil
}

// fromStruct decodes a Struct into a JSON-tagged value
func fromStruct(st *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(st.AsMap())
	if err != nil {
		return mdwerror.Wrap(err, "failed to decode reply").WithCode(mdwerror.CodeInternal)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return mdwerror.Wrap(err, "failed to decode reply").WithCode(mdwerror.CodeInternal)
	}
	return nil
}
