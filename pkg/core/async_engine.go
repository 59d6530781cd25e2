package core

import (
	"context"
	"sync"

	"github.com/ob-labs/neuralmem-go/pkg/memory"
)

// AsyncEngine provides asynchronous NeuralMem operations.
//
// It wraps the synchronous Engine and executes all operations in separate goroutines,
// making it suitable for scenarios requiring concurrent processing of multiple operations.
//
// All async methods return channels that will receive the results when operations complete.
// The engine tracks all goroutines and provides Wait() to ensure all operations finish.
//
// Example:
//
//	asyncEngine, _ := core.NewAsyncEngine(config)
//	defer asyncEngine.Close()
//
//	resultChan := asyncEngine.AddMemoryAsync(ctx, "Deployed to production", core.WithAgentID("agent_001"))
//	result := <-resultChan
//	if result.Error != nil {
//	    log.Fatal(result.Error)
//	}
type AsyncEngine struct {
	*Engine
	wg sync.WaitGroup
}

// NewAsyncEngine creates a new asynchronous NeuralMem engine.
//
// Parameters:
//   - cfg: Engine configuration
//
// Returns:
//   - *AsyncEngine: The asynchronous engine instance
//   - error: Error if configuration is invalid or initialization fails
func NewAsyncEngine(cfg *Config) (*AsyncEngine, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	return &AsyncEngine{
		Engine: engine,
	}, nil
}

// AddMemoryAsync adds a memory asynchronously.
//
// The operation executes in a separate goroutine and returns results via a channel.
//
// Parameters:
//   - ctx: Context for controlling request lifecycle
//   - content: Memory content to add
//   - opts: Optional add options (AgentID, MemoryType, Metadata, etc.)
//
// Returns:
//   - <-chan *MemoryResult: Channel that receives the result containing the record and error
func (ae *AsyncEngine) AddMemoryAsync(ctx context.Context, content string, opts ...AddOption) <-chan *MemoryResult {
	resultChan := make(chan *MemoryResult, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		record, err := ae.AddMemory(ctx, content, opts...)
		resultChan <- &MemoryResult{
			Record: record,
			Error:  err,
		}
		close(resultChan)
	}()

	return resultChan
}

// SearchAsync searches memories asynchronously.
//
// The operation executes in a separate goroutine and returns results via a channel.
//
// Parameters:
//   - ctx: Context for controlling request lifecycle
//   - query: Search query text
//   - opts: Optional search options (AgentID, MemoryType, Limit, MinScore)
//
// Returns:
//   - <-chan *AsyncSearchResult: Channel that receives the search result and error
func (ae *AsyncEngine) SearchAsync(ctx context.Context, query string, opts ...SearchOption) <-chan *AsyncSearchResult {
	resultChan := make(chan *AsyncSearchResult, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		result, err := ae.Search(ctx, query, opts...)
		resultChan <- &AsyncSearchResult{
			Result: result,
			Error:  err,
		}
		close(resultChan)
	}()

	return resultChan
}

// GetAsync retrieves a memory by ID asynchronously.
//
// Parameters:
//   - ctx: Context for controlling request lifecycle
//   - id: Memory ID
//   - opts: Optional get options (AgentID)
//
// Returns:
//   - <-chan *MemoryResult: Channel that receives the result containing the record and error
func (ae *AsyncEngine) GetAsync(ctx context.Context, id string, opts ...GetOption) <-chan *MemoryResult {
	resultChan := make(chan *MemoryResult, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		record, err := ae.Get(ctx, id, opts...)
		resultChan <- &MemoryResult{
			Record: record,
			Error:  err,
		}
		close(resultChan)
	}()

	return resultChan
}

// UpdateAsync updates a memory asynchronously.
//
// Parameters:
//   - ctx: Context for controlling request lifecycle
//   - id: Memory ID
//   - content: New memory content
//   - opts: Optional update options (AgentID, Metadata, Tags)
//
// Returns:
//   - <-chan *MemoryResult: Channel that receives the result containing the record and error
func (ae *AsyncEngine) UpdateAsync(ctx context.Context, id string, content string, opts ...UpdateOption) <-chan *MemoryResult {
	resultChan := make(chan *MemoryResult, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		record, err := ae.Update(ctx, id, content, opts...)
		resultChan <- &MemoryResult{
			Record: record,
			Error:  err,
		}
		close(resultChan)
	}()

	return resultChan
}

// DeleteAsync deletes a memory asynchronously.
//
// Parameters:
//   - ctx: Context for controlling request lifecycle
//   - id: Memory ID
//   - opts: Optional delete options (AgentID)
//
// Returns:
//   - <-chan error: Channel that receives error (nil if deletion succeeds)
func (ae *AsyncEngine) DeleteAsync(ctx context.Context, id string, opts ...DeleteOption) <-chan error {
	errChan := make(chan error, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		err := ae.Delete(ctx, id, opts...)
		errChan <- err
		close(errChan)
	}()

	return errChan
}

// ListAsync retrieves memories asynchronously.
//
// Parameters:
//   - ctx: Context for controlling request lifecycle
//   - opts: Optional list options (AgentID, MemoryType, Limit, Offset)
//
// Returns:
//   - <-chan *AsyncListResult: Channel that receives the records and error
func (ae *AsyncEngine) ListAsync(ctx context.Context, opts ...ListOption) <-chan *AsyncListResult {
	resultChan := make(chan *AsyncListResult, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		records, err := ae.List(ctx, opts...)
		resultChan <- &AsyncListResult{
			Records: records,
			Error:   err,
		}
		close(resultChan)
	}()

	return resultChan
}

// DeleteAllAsync deletes all matching memories asynchronously.
//
// Parameters:
//   - ctx: Context for controlling request lifecycle
//   - opts: Optional deletion options (AgentID, MemoryType)
//
// Returns:
//   - <-chan error: Channel that receives error (nil if deletion succeeds)
func (ae *AsyncEngine) DeleteAllAsync(ctx context.Context, opts ...DeleteAllOption) <-chan error {
	errChan := make(chan error, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		err := ae.DeleteAll(ctx, opts...)
		errChan <- err
		close(errChan)
	}()

	return errChan
}

// TrainAsync trains the embedding networks asynchronously.
//
// Training uses the non-blocking variant, so a second concurrent call
// receives ErrTrainingInProgress instead of queueing.
//
// Returns:
//   - <-chan *AsyncTrainingResult: Channel that receives the training report and error
func (ae *AsyncEngine) TrainAsync(ctx context.Context) <-chan *AsyncTrainingResult {
	resultChan := make(chan *AsyncTrainingResult, 1)
	ae.wg.Add(1)

	go func() {
		defer ae.wg.Done()
		report, err := ae.TryTrainOnMemories(ctx)
		resultChan <- &AsyncTrainingResult{
			Report: report,
			Error:  err,
		}
		close(resultChan)
	}()

	return resultChan
}

// Wait waits for all asynchronous operations to complete.
//
// This method blocks until all goroutines started by async methods have finished.
// It should be called before program exit to ensure all operations complete.
func (ae *AsyncEngine) Wait() {
	ae.wg.Wait()
}

// Close closes the asynchronous engine.
//
// It first waits for all asynchronous operations to complete, then closes the underlying engine.
func (ae *AsyncEngine) Close() error {
	ae.Wait()
	return ae.Engine.Close()
}

// MemoryResult contains the result of a memory operation.
type MemoryResult struct {
	// Record is the memory returned by the operation (nil if error occurred).
	Record *memory.MemoryRecord

	// Error is the error returned by the operation (nil if operation succeeded).
	Error error
}

// AsyncSearchResult contains the result of an asynchronous search operation.
type AsyncSearchResult struct {
	// Result is the search result.
	Result *SearchResult

	// Error is the error returned by the operation (nil if operation succeeded).
	Error error
}

// AsyncListResult contains the result of an asynchronous List operation.
type AsyncListResult struct {
	// Records is the list of memories.
	Records []*memory.MemoryRecord

	// Error is the error returned by the operation (nil if operation succeeded).
	Error error
}

// AsyncTrainingResult contains the result of an asynchronous training run.
type AsyncTrainingResult struct {
	// Report summarizes the training run (may be nil on error).
	Report *TrainingReport

	// Error is the error returned by the operation (nil if operation succeeded).
	Error error
}
