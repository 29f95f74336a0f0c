// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package validation

import (
	"errors"
	"strings"
	"testing"
)

type inner struct {
	MaxCount int `json:"max_count" validate:"min=1,max=100"`
}

type testEvent struct {
	UserID string  `json:"user_id" validate:"notblank"`
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
	Mode   string  `json:"mode" validate:"omitempty,oneof=strict lenient"`
	Name   string  `koanf:"name" validate:"omitempty,min=2"`
	Limits inner   `json:"limits"`
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := testEvent{UserID: "u1", Rating: 4, Limits: inner{MaxCount: 10}}

	tests := []struct {
		name       string
		mutate     func(e *testEvent)
		wantFields []string
		wantMsg    string
	}{
		{name: "valid", mutate: func(*testEvent) {}},
		{
			name:       "blank user id",
			mutate:     func(e *testEvent) { e.UserID = "   " },
			wantFields: []string{"user_id"},
			wantMsg:    "user_id must not be blank",
		},
		{
			name:       "rating above range",
			mutate:     func(e *testEvent) { e.Rating = 5.5 },
			wantFields: []string{"rating"},
			wantMsg:    "rating must be less than or equal to 5",
		},
		{
			name:       "bad mode",
			mutate:     func(e *testEvent) { e.Mode = "fuzzy" },
			wantFields: []string{"mode"},
			wantMsg:    "mode must be one of: strict lenient",
		},
		{
			name:       "koanf name used when json is absent",
			mutate:     func(e *testEvent) { e.Name = "x" },
			wantFields: []string{"name"},
			wantMsg:    "name must be at least 2 characters",
		},
		{
			name:       "nested path",
			mutate:     func(e *testEvent) { e.Limits.MaxCount = 0 },
			wantFields: []string{"limits.max_count"},
			wantMsg:    "limits.max_count must be at least 1",
		},
		{
			name:       "numeric max",
			mutate:     func(e *testEvent) { e.Limits.MaxCount = 101 },
			wantFields: []string{"limits.max_count"},
			wantMsg:    "limits.max_count must be at most 100",
		},
		{
			name: "multiple failures",
			mutate: func(e *testEvent) {
				e.UserID = ""
				e.Rating = -1
			},
			wantFields: []string{"user_id", "rating"},
			wantMsg:    "user_id must not be blank; rating must be greater than or equal to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := valid
			tt.mutate(&e)

			err := Validate(&e)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var errs Errors
			if !errors.As(err, &errs) {
				t.Fatalf("Validate() = %v (%T), want Errors", err, err)
			}
			if got := strings.Join(errs.Fields(), ","); got != strings.Join(tt.wantFields, ",") {
				t.Errorf("Fields() = %v, want %v", errs.Fields(), tt.wantFields)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_FieldDetails(t *testing.T) {
	t.Parallel()

	var errs Errors
	if !errors.As(Validate(&testEvent{Rating: 9, Limits: inner{MaxCount: 1}}), &errs) || len(errs) != 2 {
		t.Fatalf("errors = %v, want two", errs)
	}
	if errs[0].Tag != "notblank" {
		t.Errorf("Tag = %q, want notblank", errs[0].Tag)
	}
	if errs[1].Param != "5" || errs[1].Value != 9.0 {
		t.Errorf("rating error = %+v", errs[1])
	}
}

func TestValidate_NonStruct(t *testing.T) {
	t.Parallel()

	err := Validate("not a struct")
	if err == nil {
		t.Fatal("Validate(string) = nil, want error")
	}
	var errs Errors
	if errors.As(err, &errs) {
		t.Error("a non-struct argument is not a constraint failure")
	}
}

func TestErrors_Empty(t *testing.T) {
	t.Parallel()

	if got := Errors(nil).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
