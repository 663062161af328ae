package hrmapi

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

type Attendance struct {
	api      Requester
	validate *validator.Validate
}

func (s *Attendance) Today(ctx context.Context, employeeID string) (*AttendanceRecord, error) {
	var out *AttendanceRecord
	if err := s.api.Get(ctx, path("attendance", "today", employeeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Attendance) PunchIn(ctx context.Context, employeeID string, req PunchRequest) (AttendanceRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return AttendanceRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	var out AttendanceRecord
	err := s.api.Post(ctx, path("attendance", "punch-in", employeeID), req, &out)
	return out, err
}

func (s *Attendance) PunchOut(ctx context.Context, employeeID string, req PunchRequest) (AttendanceRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return AttendanceRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	var out AttendanceRecord
	err := s.api.Put(ctx, path("attendance", "punch-out", employeeID), req, &out)
	return out, err
}

func (s *Attendance) History(ctx context.Context, employeeID string, params ListParams) ([]AttendanceRecord, error) {
	var out []AttendanceRecord
	if err := s.api.Get(ctx, path("attendance", "employee", employeeID), params.Query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Overview is today's record next to the recent history. Either half may be
// missing; its error is reported alongside.
type Overview struct {
	Today        *AttendanceRecord  `json:"today"`
	History      []AttendanceRecord `json:"history"`
	TodayError   string             `json:"todayError,omitempty"`
	HistoryError string             `json:"historyError,omitempty"`
}

// Overview fetches today and history concurrently and waits for both to
// settle. One failing does not cancel the other.
func (s *Attendance) Overview(ctx context.Context, employeeID string, params ListParams) Overview {
	var (
		ov      Overview
		g       errgroup.Group
		today   *AttendanceRecord
		history []AttendanceRecord
	)
	g.Go(func() error {
		rec, err := s.Today(ctx, employeeID)
		if err != nil {
			ov.TodayError = err.Error()
			return nil
		}
		today = rec
		return nil
	})
	g.Go(func() error {
		recs, err := s.History(ctx, employeeID, params)
		if err != nil {
			ov.HistoryError = err.Error()
			return nil
		}
		history = recs
		return nil
	})
	_ = g.Wait()
	ov.Today, ov.History = today, history
	return ov
}
