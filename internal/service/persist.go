package service

import (
	"fmt"

	"tg-warn/internal/logger"
	"tg-warn/internal/metrics"
	"tg-warn/internal/models"
	"tg-warn/internal/storage"
)

// Persister moves the in-memory tables to and from the data files
type Persister struct {
	store *storage.FileStore
	state *models.State
}

func NewPersister(store *storage.FileStore, state *models.State) *Persister {
	return &Persister{store: store, state: state}
}

func (p *Persister) Store() *storage.FileStore {
	return p.store
}

// Save writes one category, failures are logged
func (p *Persister) Save(category string) {
	if err := p.save(category); err != nil {
		logger.Errorf("Error saving %s: %v", category, err)
	}
}

func (p *Persister) save(category string) error {
	var v interface{}
	switch category {
	case storage.CategoryUsers:
		v = p.state.Users.Snapshot()
		metrics.TrackedUsers.Set(float64(p.state.Users.Len()))
	case storage.CategoryConfigs:
		v = p.state.Configs.Snapshot()
	case storage.CategoryAdmins:
		v = p.state.Admins.Snapshot()
	case storage.CategoryMessages:
		v = p.state.Calls.Snapshot()
	case storage.CategoryReports:
		v = p.state.Reports.Snapshot()
		metrics.PendingReports.Set(float64(p.state.Reports.Len()))
	case storage.CategoryBad:
		v = p.state.Bad.Snapshot()
	default:
		return fmt.Errorf("unknown data category %q", category)
	}
	return p.store.Save(category, v)
}

// SaveAll writes every category and returns the first error
func (p *Persister) SaveAll() error {
	var first error
	for _, category := range storage.Categories {
		if err := p.save(category); err != nil {
			logger.Errorf("Error saving %s: %v", category, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// LoadAll restores every category that has a data file
func (p *Persister) LoadAll() error {
	users := map[int64]*models.UserRecord{}
	if ok, err := p.store.Load(storage.CategoryUsers, &users); err != nil {
		return err
	} else if ok {
		p.state.Users.Restore(users)
	}

	configs := map[int64]models.GroupConfig{}
	if ok, err := p.store.Load(storage.CategoryConfigs, &configs); err != nil {
		return err
	} else if ok {
		p.state.Configs.Restore(configs)
	}

	admins := map[int64]models.IDSet{}
	if ok, err := p.store.Load(storage.CategoryAdmins, &admins); err != nil {
		return err
	} else if ok {
		p.state.Admins.Restore(admins)
	}

	calls := map[int64]models.AdminCall{}
	if ok, err := p.store.Load(storage.CategoryMessages, &calls); err != nil {
		return err
	} else if ok {
		p.state.Calls.Restore(calls)
	}

	reports := map[string]models.ReportRecord{}
	if ok, err := p.store.Load(storage.CategoryReports, &reports); err != nil {
		return err
	} else if ok {
		p.state.Reports.Restore(reports)
	}

	var bad models.BadIDs
	if ok, err := p.store.Load(storage.CategoryBad, &bad); err != nil {
		return err
	} else if ok {
		p.state.Bad.Restore(bad)
	}

	metrics.TrackedUsers.Set(float64(p.state.Users.Len()))
	metrics.PendingReports.Set(float64(p.state.Reports.Len()))
	logger.Infof("Loaded data: %d users, %d reports", p.state.Users.Len(), p.state.Reports.Len())
	return nil
}
