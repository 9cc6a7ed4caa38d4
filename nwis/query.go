package nwis

import (
	"fmt"
	"net/url"
	"time"
)

// Mode selects which NWIS service a query targets.
type Mode int

const (
	// TimeSeries queries the waterservices values endpoint (iv, dv, ...).
	TimeSeries Mode = iota
	// WaterQuality queries the qwdata results endpoint.
	WaterQuality
)

const (
	defaultTimeSeriesBase   = "https://waterservices.usgs.gov/nwis/"
	defaultWaterQualityBase = "https://nwis.waterdata.usgs.gov/nwis/"

	dateLayout = "2006-01-02"
)

// Query describes one retrieval. Exactly the fields matching Mode must be
// set: Start/End for TimeSeries, ParamGroup for WaterQuality.
type Query struct {
	// Site is the USGS monitoring station identifier, e.g. "07381590".
	Site string
	// DataType selects the measured series: iv (instantaneous values),
	// dv (daily values), or qwdata for water quality.
	DataType string

	Mode Mode

	Start time.Time
	End   time.Time

	// ParamGroup groups related water-quality analytes, e.g. "SED".
	ParamGroup string
}

// Validate checks the query before any network I/O.
func (q Query) Validate() error {
	if q.Site == "" {
		return fmt.Errorf("%w: site is required", ErrInvalidQuery)
	}
	if q.DataType == "" {
		return fmt.Errorf("%w: data type is required", ErrInvalidQuery)
	}
	switch q.Mode {
	case TimeSeries:
		if q.Start.IsZero() || q.End.IsZero() {
			return fmt.Errorf("%w: time-series query needs start and end dates", ErrInvalidQuery)
		}
		if q.End.Before(q.Start) {
			return fmt.Errorf("%w: end %s before start %s",
				ErrInvalidQuery, q.End.Format(dateLayout), q.Start.Format(dateLayout))
		}
	case WaterQuality:
		if q.ParamGroup == "" {
			return fmt.Errorf("%w: water-quality query needs a parameter group", ErrInvalidQuery)
		}
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidQuery, q.Mode)
	}
	return nil
}

// URL builds the request URL against the default service endpoints.
func (q Query) URL() (string, error) {
	switch q.Mode {
	case WaterQuality:
		return q.buildURL(defaultWaterQualityBase)
	default:
		return q.buildURL(defaultTimeSeriesBase)
	}
}

// buildURL assembles the query string in the order the service documents
// it. Output format is always rdb.
func (q Query) buildURL(base string) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	if q.Mode == WaterQuality {
		return fmt.Sprintf("%s%s/?site_no=%s&agency_cd=USGS&param_group=%s&format=rdb",
			base,
			url.PathEscape(q.DataType),
			url.QueryEscape(q.Site),
			url.QueryEscape(q.ParamGroup),
		), nil
	}
	return fmt.Sprintf("%s%s/?format=rdb&sites=%s&startDT=%s&endDT=%s&siteStatus=all",
		base,
		url.PathEscape(q.DataType),
		url.QueryEscape(q.Site),
		q.Start.Format(dateLayout),
		q.End.Format(dateLayout),
	), nil
}
