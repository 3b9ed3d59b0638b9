package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/config"
)

var (
	calendarPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9:@+_-]*$`)
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// convertRequest is the query of GET /convert. The date is numeric in the
// source calendar, so it is checked for shape only.
type convertRequest struct {
	From string `validate:"required,calendar"`
	To   string `validate:"required,calendar"`
	Date string `validate:"required,isodate"`
}

type convertResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Input  string `json:"input"`
	Output string `json:"output"`
	Pivot  int64  `json:"pivot"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(config.ValidationTagCalendar, func(fl validator.FieldLevel) bool {
		return calendarPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(config.ValidationTagISODate, func(fl validator.FieldLevel) bool {
		return isoDatePattern.MatchString(fl.Field().String())
	})
	return v
}

// handleConvert answers GET /convert?from=&to=&date=YYYY-MM-DD.
func (s *CalendarServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	req := convertRequest{
		From: strings.ToLower(strings.TrimSpace(q.Get(config.QueryFrom))),
		To:   strings.ToLower(strings.TrimSpace(q.Get(config.QueryTo))),
		Date: strings.TrimSpace(q.Get(config.QueryDate)),
	}

	if err := s.validate.Struct(req); err != nil {
		s.countConversion(config.MetricUnknownLabel, config.MetricUnknownLabel, config.MetricResultInvalid)
		resp := errorResponse{Error: config.ErrConvertRequest}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			resp.Field = strings.ToLower(verrs[0].Field())
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	from, err := s.router.Lookup(req.From)
	if err != nil {
		s.failConversion(w, config.MetricUnknownLabel, config.MetricUnknownLabel, err)
		return
	}
	to, err := s.router.Lookup(req.To)
	if err != nil {
		s.failConversion(w, from.ID(), config.MetricUnknownLabel, err)
		return
	}

	// The shape was validated: three digit groups.
	parts := strings.Split(req.Date, config.DateSeparator)
	y, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	d, _ := strconv.Atoi(parts[2])

	conv, err := s.router.Convert(from.ID(), to.ID(), y, m, d)
	if err != nil {
		s.failConversion(w, from.ID(), to.ID(), err)
		return
	}

	s.countConversion(from.ID(), to.ID(), config.MetricResultOK)
	slog.Debug(config.MsgConverted,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyFrom, from.ID(),
		config.LogKeyTo, to.ID(),
		config.LogKeyValue, req.Date,
	)
	writeJSON(w, http.StatusOK, convertResponse{
		From:   from.ID(),
		To:     to.ID(),
		Input:  req.Date,
		Output: fmt.Sprintf(config.FormatISODate, conv.Year, conv.Month, conv.Day),
		Pivot:  int64(conv.Pivot),
	})
}

// failConversion maps calendar errors to HTTP statuses: unknown calendars
// are 404, dates the calendars cannot hold are 422.
func (s *CalendarServer) failConversion(w http.ResponseWriter, from, to string, err error) {
	status := http.StatusBadRequest
	resp := errorResponse{Error: err.Error()}

	var ce *calerr.Error
	if errors.As(err, &ce) {
		resp.Kind = string(ce.Kind)
		resp.Field = ce.Field
		switch ce.Kind {
		case calerr.UnknownVariant:
			status = http.StatusNotFound
		case calerr.FieldOutOfRange, calerr.VariantRangeExceeded:
			status = http.StatusUnprocessableEntity
		}
	}

	result := config.MetricResultInvalid
	if resp.Kind != "" {
		result = strings.ToLower(resp.Kind)
	}
	s.countConversion(from, to, result)
	writeJSON(w, status, resp)
}

func (s *CalendarServer) countConversion(from, to, result string) {
	s.metrics.Conversions.WithLabelValues(from, to, result).Inc()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

