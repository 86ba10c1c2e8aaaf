package backup

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// DefaultReuploadDifference es cuántas entradas nuevas de metadata disparan un respaldo
const DefaultReuploadDifference = 10

// metadataCache es la parte del cache durable que el respaldo lee y escribe
type metadataCache interface {
	SaveMetadata(ctx context.Context, md entities.AssetMetadata) error
	SaveMetadataBlob(ctx context.Context, data []byte) (int, error)
}

// Mirror replica el blob de metadata en un object store remoto cuando el
// mapa creció lo suficiente desde el último respaldo exitoso
type Mirror struct {
	store     interfaces.ObjectStore
	cache     metadataCache
	source    interfaces.MetadataSource
	objectKey string
	threshold int

	// syncMu serializa los Check; mu solo protege baseline y nunca se toma durante la subida
	syncMu   sync.Mutex
	mu       sync.Mutex
	baseline int
}

// NewMirror crea el respaldo remoto. Un threshold no positivo usa DefaultReuploadDifference.
func NewMirror(store interfaces.ObjectStore, cache metadataCache, source interfaces.MetadataSource, objectKey string, threshold int) *Mirror {
	if threshold <= 0 {
		threshold = DefaultReuploadDifference
	}
	return &Mirror{
		store:     store,
		cache:     cache,
		source:    source,
		objectKey: objectKey,
		threshold: threshold,
	}
}

// ShouldSync reports whether current grew by at least threshold entries over lastSynced
func ShouldSync(current, lastSynced, threshold int) bool {
	return current >= lastSynced+threshold
}

// MaybeSync persiste la metadata localmente y la sube al store si corresponde.
// Retorna true solo si la subida fue exitosa; los fallos se registran y no se propagan.
func (m *Mirror) MaybeSync(ctx context.Context, current, lastSynced int) bool {
	if !ShouldSync(current, lastSynced, m.threshold) {
		return false
	}

	md := m.source.MetadataSnapshot()
	if err := m.cache.SaveMetadata(ctx, md); err != nil {
		logging.WarnWithError(ctx, "Failed to persist metadata before backup", err, logging.Fields{
			logging.FieldEntries: len(md),
		})
	}

	data, err := json.Marshal(md)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to encode metadata backup", err, nil)
		metrics.RecordBackupSync(false, lastSynced)
		return false
	}

	if err := m.store.PutObject(ctx, m.objectKey, data); err != nil {
		logging.ErrorWithError(ctx, "Metadata backup upload failed", err, logging.Fields{
			logging.FieldObjectKey: m.objectKey,
			logging.FieldEntries:   current,
			logging.FieldBaseline:  lastSynced,
		})
		metrics.RecordBackupSync(false, lastSynced)
		return false
	}

	logging.Info(ctx, "Metadata backup uploaded", logging.Fields{
		logging.FieldObjectKey: m.objectKey,
		logging.FieldEntries:   current,
		logging.FieldBaseline:  lastSynced,
		"size_bytes":           len(data),
	})
	metrics.RecordBackupSync(true, current)
	return true
}

// Check evalúa la metadata actual contra el último respaldo exitoso.
// La línea base avanza solo cuando la subida funciona; si falla se reintenta en el próximo ciclo.
func (m *Mirror) Check(ctx context.Context) bool {
	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	baseline := m.Baseline()
	current := len(m.source.MetadataSnapshot())
	if !m.MaybeSync(ctx, current, baseline) {
		return false
	}

	m.mu.Lock()
	m.baseline = current
	m.mu.Unlock()
	return true
}

// Restore descarga el respaldo al blob local de metadata.
// Un objeto inexistente no es un error; retorna las entradas restauradas.
func (m *Mirror) Restore(ctx context.Context) (int, error) {
	data, err := m.store.GetObject(ctx, m.objectKey)
	if err != nil {
		if errors.Is(err, entities.ErrObjectNotFound) {
			logging.Info(ctx, "No metadata backup to restore", logging.Fields{
				logging.FieldObjectKey: m.objectKey,
			})
			return 0, nil
		}
		return 0, fmt.Errorf("failed to download metadata backup: %w", err)
	}

	entries, err := m.cache.SaveMetadataBlob(ctx, data)
	if err != nil {
		return 0, fmt.Errorf("failed to restore metadata backup: %w", err)
	}

	logging.Info(ctx, "Metadata backup restored", logging.Fields{
		logging.FieldObjectKey: m.objectKey,
		logging.FieldEntries:   entries,
	})
	return entries, nil
}

// ResetBaseline fija la cantidad de entradas consideradas ya respaldadas
func (m *Mirror) ResetBaseline(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseline = count
}

// Baseline retorna la cantidad de entradas del último respaldo exitoso
func (m *Mirror) Baseline() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline
}
