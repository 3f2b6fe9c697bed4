package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nordstat/datadoc/internal/core/compat"
	"github.com/nordstat/datadoc/internal/core/domain"
	"github.com/nordstat/datadoc/internal/core/ports"
)

// DocumentSession owns one open metadata document for the duration of an
// editing session. It is the only component that touches document storage.
// The session is not safe for concurrent use; the caller holds exclusive
// access per storage ref.
type DocumentSession struct {
	storage   ports.DocumentStorage
	extractor ports.SchemaExtractor
	events    ports.EventPublisher
	user      string
	now       func() time.Time

	datasetPath string
	documentRef string
	doc         *domain.MetadataDocument
}

func NewDocumentSession(
	storage ports.DocumentStorage,
	extractor ports.SchemaExtractor,
	events ports.EventPublisher,
	user string,
) *DocumentSession {
	return &DocumentSession{
		storage:   storage,
		extractor: extractor,
		events:    events,
		user:      user,
		now:       time.Now,
	}
}

// Open reads the metadata document for datasetPath if one exists, upgrades
// it to the current schema, extracts the variable schema from the dataset
// and reconciles the two. When no document exists one is initialized from
// extraction alone. Any failure aborts the open; no partial document is
// ever exposed.
func (s *DocumentSession) Open(
	ctx context.Context,
	datasetPath string,
	confirmedRenames map[string]string,
) (ports.OpenResult, error) {
	ref := DocumentRefFor(datasetPath)

	var (
		doc          *domain.MetadataDocument
		migratedFrom string
		created      bool
	)

	raw, err := s.storage.ReadDocument(ctx, ref)
	switch {
	case err == nil:
		doc, migratedFrom, err = compat.Upgrade(raw)
		if err != nil {
			return ports.OpenResult{}, fmt.Errorf("upgrade stored document: %w", err)
		}
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		doc = s.freshDocument(datasetPath)
		created = true
	default:
		return ports.OpenResult{}, domain.WrapError(domain.ErrStorageRead, "read metadata document", err)
	}

	columns, err := s.extractor.ExtractSchema(ctx, datasetPath)
	if err != nil {
		return ports.OpenResult{}, fmt.Errorf("extract dataset schema: %w", err)
	}

	variables, diff, err := ReconcileVariables(doc.Variables, columns, confirmedRenames)
	if err != nil {
		return ports.OpenResult{}, err
	}
	doc.Variables = variables
	doc.Dataset.DataSourcePath = datasetPath
	applyDefaults(doc)
	doc.PercentageComplete = CalculatePercentComplete(doc)

	s.datasetPath = datasetPath
	s.documentRef = ref
	s.doc = doc

	// Audit events are advisory and never abort the open.
	_ = s.events.PublishDocumentOpened(ctx, ref)

	return ports.OpenResult{
		Document:     doc,
		Diff:         diff,
		MigratedFrom: migratedFrom,
		Created:      created,
	}, nil
}

// Save serializes the open document at the current schema version and
// writes it through the storage collaborator. On write failure the
// in-memory document is left untouched so the caller may retry.
func (s *DocumentSession) Save(ctx context.Context) error {
	if s.doc == nil {
		return domain.WrapError(domain.ErrInvalidInput, "save metadata document", errors.New("no open document"))
	}

	staged := *s.doc
	now := s.now().UTC().Truncate(time.Second)
	if staged.Dataset.MetadataCreatedDate == nil {
		staged.Dataset.MetadataCreatedDate = &now
		staged.Dataset.MetadataCreatedBy = s.user
	}
	staged.Dataset.MetadataLastUpdatedDate = &now
	staged.Dataset.MetadataLastUpdatedBy = s.user
	staged.DocumentVersion = domain.DocumentVersion
	staged.PercentageComplete = CalculatePercentComplete(&staged)

	raw, err := json.MarshalIndent(staged, "", "    ")
	if err != nil {
		return fmt.Errorf("encode metadata document: %w", err)
	}

	if err := s.storage.WriteDocument(ctx, s.documentRef, raw); err != nil {
		return domain.WrapError(domain.ErrStorageWrite, "write metadata document", err)
	}

	*s.doc = staged
	_ = s.events.PublishDocumentSaved(ctx, s.documentRef)
	return nil
}

// Document exposes the mutable in-memory document to the editing UI.
func (s *DocumentSession) Document() *domain.MetadataDocument {
	return s.doc
}

// DocumentRef returns the storage ref of the open document.
func (s *DocumentSession) DocumentRef() string {
	return s.documentRef
}

func (s *DocumentSession) PercentComplete() int {
	if s.doc == nil {
		return 0
	}
	return CalculatePercentComplete(s.doc)
}

func (s *DocumentSession) freshDocument(datasetPath string) *domain.MetadataDocument {
	stem := datasetStem(datasetPath)
	return &domain.MetadataDocument{
		DocumentVersion: domain.DocumentVersion,
		Dataset: domain.Dataset{
			ShortName:    stem,
			Version:      datasetVersion(stem),
			DatasetState: datasetStateFromPath(datasetPath),
		},
		Variables: []domain.Variable{},
	}
}

// applyDefaults fills fields the user should not have to set by hand:
// surrogate ids, the default variable role and the personal-data flag.
func applyDefaults(doc *domain.MetadataDocument) {
	if doc.Dataset.ID == "" {
		doc.Dataset.ID = uuid.NewString()
	}
	falseValue := false
	for i := range doc.Variables {
		if doc.Variables[i].ID == "" {
			doc.Variables[i].ID = uuid.NewString()
		}
		if doc.Variables[i].VariableRole == "" {
			doc.Variables[i].VariableRole = domain.RoleMeasure
		}
		if doc.Variables[i].IsPersonalData == nil {
			doc.Variables[i].IsPersonalData = &falseValue
		}
	}
}
