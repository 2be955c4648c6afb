package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"gorm.io/gorm"
)

const (
	EntitySale              = "sale"
	EntityPackagingMaterial = "packaging_material"
	EntityPurchase          = "purchase"
	EntityTimeEntry         = "time_entry"
	EntityAccountingEntry   = "accounting_entry"
)

var (
	ErrNotFound      = errors.New("audit log not found")
	ErrAlreadyUndone = errors.New("this change was already undone")
	ErrNotUndoable   = errors.New("this change cannot be undone")
)

// maxDescription matches the size of audit_logs.description.
const maxDescription = 255

type LogOptions struct {
	Actor       auth.Actor
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog stores one audit row. Pass the transaction handle when the change
// itself runs in a transaction so both commit together.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.Actor.UserID,
		UserName:    opts.Actor.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: truncate(opts.Description, maxDescription),
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}

	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// UndoLog reverts the change recorded by one audit row and records the undo.
func UndoLog(db *gorm.DB, logID uint, actor auth.Actor) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var entry models.AuditLog
		if err := tx.First(&entry, logID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if entry.IsUndone {
			return ErrAlreadyUndone
		}

		model, ok := undoableModel(entry.EntityType)
		if !ok {
			return ErrNotUndoable
		}

		switch entry.Action {
		case models.AuditActionCreate:
			if err := tx.Delete(model, entry.EntityID).Error; err != nil {
				return fmt.Errorf("delete %s: %w", entry.EntityType, err)
			}
		case models.AuditActionUpdate:
			if err := json.Unmarshal([]byte(entry.BeforeData), model); err != nil {
				return fmt.Errorf("decode before image: %w", err)
			}
			if err := tx.Save(model).Error; err != nil {
				return fmt.Errorf("restore %s: %w", entry.EntityType, err)
			}
		case models.AuditActionDelete:
			if err := json.Unmarshal([]byte(entry.BeforeData), model); err != nil {
				return fmt.Errorf("decode before image: %w", err)
			}
			// recreated under its old id
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("recreate %s: %w", entry.EntityType, err)
			}
		default:
			return ErrNotUndoable
		}

		now := time.Now().UTC()
		entry.IsUndone = true
		entry.UndoneBy = &actor.UserID
		entry.UndoneAt = &now
		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("mark audit log undone: %w", err)
		}

		return tx.Create(&models.AuditLog{
			UserID:      actor.UserID,
			UserName:    actor.UserName,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Action:      models.AuditActionUndo,
			Description: truncate("Undone: "+entry.Description, maxDescription),
			BeforeData:  entry.AfterData,
			AfterData:   entry.BeforeData,
		}).Error
	})
}

// undoableModel returns an empty model for the entity types whose history
// can be replayed without side effects on stock.
func undoableModel(entityType string) (any, bool) {
	switch entityType {
	case EntityAccountingEntry:
		return &models.AccountingEntry{}, true
	case EntityPurchase:
		return &models.Purchase{}, true
	case EntityTimeEntry:
		return &models.TimeEntry{}, true
	default:
		return nil, false
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
