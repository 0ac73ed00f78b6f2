package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortMu   sync.Mutex
	ortInit bool
)

// initORT loads the shared library once per process. The first library path
// wins.
func initORT(library string) error {
	ortMu.Lock()
	defer ortMu.Unlock()
	if ortInit || ort.IsInitialized() {
		ortInit = true
		return nil
	}
	if library != "" {
		ort.SetSharedLibraryPath(library)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	ortInit = true
	return nil
}

// ORTOptions configures ONNX Runtime sessions.
type ORTOptions struct {
	Library        string
	IntraOpThreads int
}

// ORTSession runs an encoder through ONNX Runtime.
type ORTSession struct {
	mu         sync.RWMutex
	session    *ort.DynamicAdvancedSession
	tokenTypes bool
}

// NewORTSession opens modelPath. token_type_ids is fed only when the model
// declares it, and only the first output is read.
func NewORTSession(modelPath string, opts ORTOptions) (*ORTSession, error) {
	if err := initORT(opts.Library); err != nil {
		return nil, err
	}
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("inspect model %s: %w", modelPath, err)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("model %s declares no outputs", modelPath)
	}
	inputNames := []string{"input_ids", "attention_mask"}
	tokenTypes := false
	for _, in := range inputs {
		if in.Name == "token_type_ids" {
			tokenTypes = true
			inputNames = append(inputNames, in.Name)
			break
		}
	}

	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	defer so.Destroy()
	threads := opts.IntraOpThreads
	if threads <= 0 {
		threads = 1
	}
	if err := so.SetIntraOpNumThreads(threads); err != nil {
		return nil, fmt.Errorf("set intra-op threads: %w", err)
	}

	sess, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputs[0].Name}, so)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &ORTSession{session: sess, tokenTypes: tokenTypes}, nil
}

// Run implements Session.
func (s *ORTSession) Run(ctx context.Context, in Inputs) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if s == nil {
		return Output{}, errors.New("session closed")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Output{}, errors.New("session closed")
	}
	shape := ort.NewShape(1, int64(len(in.InputIDs)))

	ids, err := ort.NewTensor(shape, in.InputIDs)
	if err != nil {
		return Output{}, fmt.Errorf("input_ids tensor: %w", err)
	}
	defer ids.Destroy()
	mask, err := ort.NewTensor(shape, in.AttentionMask)
	if err != nil {
		return Output{}, fmt.Errorf("attention_mask tensor: %w", err)
	}
	defer mask.Destroy()

	values := []ort.Value{ids, mask}
	if s.tokenTypes {
		tt := in.TokenTypeIDs
		if len(tt) != len(in.InputIDs) {
			tt = make([]int64, len(in.InputIDs))
		}
		types, err := ort.NewTensor(shape, tt)
		if err != nil {
			return Output{}, fmt.Errorf("token_type_ids tensor: %w", err)
		}
		defer types.Destroy()
		values = append(values, types)
	}

	outputs := []ort.Value{nil}
	if err := s.session.Run(values, outputs); err != nil {
		return Output{}, fmt.Errorf("run session: %w", err)
	}
	defer outputs[0].Destroy()

	t, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return Output{}, fmt.Errorf("%w: output is not float32", ErrShapeMismatch)
	}
	return Output{
		Data:  append([]float32(nil), t.GetData()...),
		Shape: append([]int64(nil), t.GetShape()...),
	}, nil
}

// Close releases the session.
func (s *ORTSession) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	return err
}
