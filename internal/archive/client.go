// Package archive fetches single-day historical observations from remote
// scientific archives. Transport details stay behind the Client interface;
// callers only see a record or an error.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/dhowell/climacast/internal/models"
)

// Client fetches one day's observation for a coordinate. A failure of any
// kind (network, decode, missing variable) is reported as an error value;
// recovery is the caller's concern.
type Client interface {
	FetchDay(ctx context.Context, lat, lon float64, date time.Time) (*models.ObservationRecord, error)
}

// Credentials is an opaque credential pair handed to client constructors.
// Nothing outside this package inspects it.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether no credentials were supplied. Empty credentials
// are valid: the public POWER endpoints allow anonymous access.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

var (
	// ErrMissingVariable indicates the archive answered but one of the
	// requested variables was absent or flagged as fill value.
	ErrMissingVariable = errors.New("archive response missing variable")

	// ErrNoData indicates the archive has no record for the requested day.
	ErrNoData = errors.New("archive has no data for requested day")
)
