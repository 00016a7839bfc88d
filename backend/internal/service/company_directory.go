package service

import (
	"context"
	"sync"
	"time"

	"github.com/teamdash/teamdash/shared/logger"
)

type CompanyNameStorage interface {
	CompanyNames() (map[string]string, error)
}

// CompanyDirectory keeps company_id -> company_name in memory so list and
// member reads can fill company names without a query per row.
type CompanyDirectory struct {
	storage        CompanyNameStorage
	names          map[string]string
	mu             sync.RWMutex
	lastUpdateTime time.Time
}

func NewCompanyDirectory(storage CompanyNameStorage) *CompanyDirectory {
	return &CompanyDirectory{
		storage: storage,
		names:   make(map[string]string),
	}
}

// Update reloads the whole directory and swaps it in.
func (d *CompanyDirectory) Update() error {
	names, err := d.storage.CompanyNames()
	if err != nil {
		return err
	}
	if names == nil {
		names = make(map[string]string)
	}

	d.mu.Lock()
	d.names = names
	d.lastUpdateTime = time.Now()
	d.mu.Unlock()

	logger.Log.Debug("company directory updated", "entries", len(names))
	return nil
}

// Invalidate is called after company writes. A failed reload keeps the old
// entries until the next background tick.
func (d *CompanyDirectory) Invalidate() {
	if err := d.Update(); err != nil {
		logger.Log.Error("company directory reload failed", "error", err)
	}
}

func (d *CompanyDirectory) Name(companyId string) (string, bool) {
	if companyId == "" {
		return "", false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[companyId]
	return name, ok
}

// Names returns a copy of the directory.
func (d *CompanyDirectory) Names() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.names))
	for id, name := range d.names {
		out[id] = name
	}
	return out
}

func (d *CompanyDirectory) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started company directory updates", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := d.Update(); err != nil {
					logger.Log.Error("company directory update error", "error", err)
				}
			case <-ctx.Done():
				logger.Log.Info("company directory updates stopped")
				return
			}
		}
	}()
}
