package artifact

import (
	"context"
	"fmt"

	"github.com/drakos74/devcluster/infra/config"
	"github.com/drakos74/devcluster/internal/data"
	"github.com/drakos74/devcluster/internal/model"
	"github.com/drakos74/devcluster/internal/storage"
	"github.com/drakos74/devcluster/internal/storage/bucket"
	"github.com/drakos74/devcluster/internal/storage/file/json"
)

// Source provides the dataset and the model for a single render.
type Source interface {
	// Bundled is true when a dataset is available without an upload.
	Bundled() bool
	Dataset(ctx context.Context) (*data.Table, error)
	Model(ctx context.Context) (*model.Model, error)
}

// Loader reads the dataset and the model on every call.
type Loader struct {
	dataset string
	models  storage.Persistence
	name    string
}

// NewLoader creates a loader for the given dataset file and stored model.
func NewLoader(dataset string, models storage.Persistence, name string) *Loader {
	return &Loader{
		dataset: dataset,
		models:  models,
		name:    name,
	}
}

func (l *Loader) Bundled() bool {
	return l.dataset != ""
}

func (l *Loader) Dataset(ctx context.Context) (*data.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data.Load(l.dataset)
}

func (l *Loader) Model(ctx context.Context) (*model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return model.Load(l.models, l.name)
}

const uploads = "dataset"

// Uploads creates the store of the uploaded datasets for the given configuration.
func Uploads(cfg config.Dataset) (storage.Persistence, error) {
	var shard storage.Shard
	switch cfg.Uploads {
	case config.UploadsMemory:
		shard = json.LocalShard()
	case config.UploadsFile:
		shard = json.BlobShard(cfg.Dir, storage.UploadDir)
	case config.UploadsNone:
		shard = storage.VoidShard()
	default:
		return nil, fmt.Errorf("unknown upload store '%s'", cfg.Uploads)
	}
	return shard(uploads)
}

// Models creates the model storage for the given configuration.
func Models(ctx context.Context, cfg config.Model) (storage.Persistence, error) {
	switch cfg.Source {
	case config.SourceFile:
		return json.NewJsonBlob(storage.ModelDir, cfg.Name, false).WithRoot(cfg.Dir), nil
	case config.SourceBucket:
		s, err := bucket.New(ctx, cfg.Bucket, cfg.Prefix, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("could not create model storage: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown model source '%s'", cfg.Source)
}
