package database

import (
	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	historyRepo contract.HistoryRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	return &instance{
		historyRepo: newHistoryRepo(db.conn),
	}
}

// History returns the rotation history repository
func (i *instance) History() contract.HistoryRepo {
	return i.historyRepo
}
