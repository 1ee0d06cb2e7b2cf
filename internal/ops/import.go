package ops

import (
	"context"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/studynotes/internal/codec"
	"github.com/hpungsan/studynotes/internal/errors"
)

// ImportInput contains parameters for the Import operation.
// Exactly one of RawJSON and Path must be set.
type ImportInput struct {
	RawJSON string `json:"raw_json,omitempty"`
	Path    string `json:"path,omitempty"`
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int    `json:"imported"`
	BatchID  string `json:"batch_id"`
}

// Import merges a JSON backup into the stored notes. Imported notes replace
// stored notes with the same id; other stored notes are kept. A payload that
// fails to parse leaves storage untouched.
func Import(ctx context.Context, env *Env, input ImportInput) (*ImportOutput, error) {
	hasRaw := input.RawJSON != ""
	hasPath := input.Path != ""
	if hasRaw == hasPath {
		return nil, errors.NewInvalidRequest("specify exactly one of raw_json or path")
	}

	raw := []byte(input.RawJSON)
	if hasPath {
		var err error
		if raw, err = readImportFile(input.Path, env); err != nil {
			return nil, err
		}
	} else if len(raw) > MaxImportBytes {
		return nil, errors.NewFileTooLarge(MaxImportBytes, int64(len(raw)))
	}

	imported, err := codec.FromJSON(raw)
	if err != nil {
		return nil, err
	}

	count, err := env.Notes.Merge(ctx, imported)
	if err != nil {
		return nil, err
	}

	batchID := ulid.Make().String()
	env.Logger.Info().Str("batch_id", batchID).Int("imported", count).Msg("import merged")

	return &ImportOutput{Imported: count, BatchID: batchID}, nil
}

func readImportFile(path string, env *Env) ([]byte, error) {
	if err := ValidatePath(path, PathCheckRead, codec.FormatJSON.Ext(), env.Config, env.ExportsDir()); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(path)
	if err != nil {
		if errors.Is(err, errors.ErrFileNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > MaxImportBytes {
		info, statErr := file.Stat()
		actual := int64(len(data))
		if statErr == nil {
			actual = info.Size()
		}
		return nil, errors.NewFileTooLarge(MaxImportBytes, actual)
	}
	return data, nil
}
