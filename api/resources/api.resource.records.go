// FilePath: api/resources/api.resource.records.go
package resources

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/itsatony/healthhub/internal/coerce"
	"github.com/itsatony/healthhub/internal/errors"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

var filterDecoder = newFilterDecoder()

func newFilterDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// RecordHandlers lists stored records
type RecordHandlers struct {
	store *repository.Store
	now   func() time.Time
}

// RecordList is the response of the list endpoints.
type RecordList struct {
	Kind    models.Kind `json:"kind"`
	Total   int64       `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	Records interface{} `json:"records"`
}

// @Summary List stored records
// @Description Returns records of one kind ordered by their natural key, newest first.
// @Tags records
// @Produce json
// @Param kind path string true "Metric kind" Enums(sleep, exercise, glucose)
// @Param from query string false "Start (date or RFC3339)"
// @Param to query string false "End (date or RFC3339), inclusive"
// @Param days query int false "Only the last N days"
// @Param limit query int false "Page size (max 1000)"
// @Param offset query int false "Page offset"
// @Success 200 {object} RecordList
// @Failure 400 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /api/{kind} [get]
// @Security BearerAuth
func (h *RecordHandlers) List(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	kind, err := models.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		respondWithError(w, errors.NewNotFoundError("unknown metric kind", err).WithRequestID(requestID))
		return
	}

	var filters models.RecordFilters
	if err := filterDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	q, err := listQuery(filters, h.now())
	if err != nil {
		respondWithError(w, errors.NewValidationError(err.Error(), err).WithRequestID(requestID))
		return
	}
	q = q.Normalize()

	list := RecordList{Kind: kind, Limit: q.Limit, Offset: q.Offset}
	switch kind {
	case models.KindSleep:
		list.Records, err = h.store.Sleep.List(r.Context(), q)
		if err == nil {
			list.Total, err = h.store.Sleep.Count(r.Context())
		}
	case models.KindExercise:
		list.Records, err = h.store.Exercise.List(r.Context(), q)
		if err == nil {
			list.Total, err = h.store.Exercise.Count(r.Context())
		}
	case models.KindGlucose:
		list.Records, err = h.store.Glucose.List(r.Context(), q)
		if err == nil {
			list.Total, err = h.store.Glucose.Count(r.Context())
		}
	}
	if err != nil {
		if stderrors.Is(err, repository.ErrUnavailable) {
			respondWithError(w, errors.NewUnavailableError("database unavailable", err).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewDatabaseError(fmt.Sprintf("failed to list %s records", kind), err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

// listQuery resolves the user facing filters. A date-only "to" includes the
// whole day; "days" wins over "from".
func listQuery(f models.RecordFilters, now time.Time) (models.ListQuery, error) {
	q := models.ListQuery{Limit: f.Limit, Offset: f.Offset}

	if f.From != "" {
		start, ok := coerce.Timestamp(f.From)
		if !ok {
			return q, fmt.Errorf("invalid from %q", f.From)
		}
		q.Range.Start = &start
	}
	if f.To != "" {
		end, ok := coerce.Timestamp(f.To)
		if !ok {
			return q, fmt.Errorf("invalid to %q", f.To)
		}
		if isDateOnly(f.To) {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		q.Range.End = &end
	}
	if f.Days < 0 {
		return q, fmt.Errorf("days must not be negative")
	}
	if f.Days > 0 {
		start := now.UTC().AddDate(0, 0, -f.Days)
		q.Range.Start = &start
	}
	return q, nil
}

func isDateOnly(s string) bool {
	_, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	return err == nil
}
