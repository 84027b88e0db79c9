package fundfolio

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/fundfolio/date"
	"github.com/vmihailenco/msgpack/v5"
)

// Memo stores the return series of a portfolio on disk.
//
// A memo is valid for the day it was computed, as long as the ledger file is
// older than the memo file and the valuation it was computed from is unchanged
// (NAV rows may be merged during the day). A nil *Memo never hits and never saves.
type Memo struct {
	Dir           string
	Portfolio     string
	LedgerModTime time.Time
}

type memoFile struct {
	Today  string       `msgpack:"today"`
	Inputs string       `msgpack:"inputs"`
	Series ReturnSeries `msgpack:"series"`
}

func (m *Memo) path() string { return filepath.Join(m.Dir, m.Portfolio+".memo") }

// InputsDigest identifies the value and cash flow series the return series are
// computed from.
func InputsDigest(values, flows *date.History[float64]) (string, error) {
	data, err := msgpack.Marshal([]*date.History[float64]{values, flows})
	if err != nil {
		return "", fmt.Errorf("cannot encode memo inputs: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Load returns the memoized series computed for today from the inputs
// identified by digest, if still valid.
func (m *Memo) Load(today date.Date, digest string) (ReturnSeries, bool) {
	if m == nil {
		return ReturnSeries{}, false
	}
	info, err := os.Stat(m.path())
	if err != nil || !info.ModTime().After(m.LedgerModTime) {
		return ReturnSeries{}, false
	}
	data, err := os.ReadFile(m.path())
	if err != nil {
		return ReturnSeries{}, false
	}
	var f memoFile
	if err := msgpack.Unmarshal(data, &f); err != nil || f.Today != today.String() || f.Inputs != digest {
		return ReturnSeries{}, false
	}
	if f.Series.TWR == nil || f.Series.MWR == nil || f.Series.MWRWeekly == nil ||
		f.Series.WeightedWeekly == nil || f.Series.WeightedMonthly == nil {
		return ReturnSeries{}, false
	}
	return f.Series, true
}

// Save writes the series computed for today from the inputs identified by digest.
func (m *Memo) Save(today date.Date, digest string, series ReturnSeries) error {
	if m == nil {
		return nil
	}
	data, err := msgpack.Marshal(memoFile{Today: today.String(), Inputs: digest, Series: series})
	if err != nil {
		return fmt.Errorf("cannot encode memo: %w", err)
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return err
	}
	// a unique temporary file: concurrent reports may save the same memo.
	tmp, err := os.CreateTemp(m.Dir, m.Portfolio+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), m.path())
}
