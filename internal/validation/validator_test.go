// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package validation

import (
	"strings"
	"testing"
)

type rateRequest struct {
	ItemID string `json:"item_id" validate:"required,itemid"`
	Rating int    `json:"rating" validate:"min=1,max=10"`
}

type roomRequest struct {
	RoomID string `json:"room_id" validate:"required,roomcode,len=8"`
}

type listRequest struct {
	Limit int    `query:"limit" validate:"min=1,max=100"`
	Mode  string `json:"mode,omitempty" validate:"omitempty,oneof=personal room"`
}

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() = nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"valid rating", &rateRequest{ItemID: "tt0111161", Rating: 10}, "", "", ""},
		{"missing item", &rateRequest{Rating: 5}, "item_id", "required", "item_id is required"},
		{"item with space", &rateRequest{ItemID: "tt 0111161", Rating: 5}, "item_id", "itemid", "item_id must be a catalog id without spaces"},
		{"rating too low", &rateRequest{ItemID: "tt1", Rating: 0}, "rating", "min", "rating must be at least 1"},
		{"rating too high", &rateRequest{ItemID: "tt1", Rating: 11}, "rating", "max", "rating must be at most 10"},
		{"valid room", &roomRequest{RoomID: "K3X9QZ2A"}, "", "", ""},
		{"lower-case room", &roomRequest{RoomID: "k3x9qz2a"}, "room_id", "roomcode", "room_id must be an upper-case alphanumeric room code"},
		{"short room", &roomRequest{RoomID: "K3X9"}, "room_id", "len", "room_id must be exactly 8 characters"},
		{"query tag name", &listRequest{Limit: 0}, "limit", "min", "limit must be at least 1"},
		{"oneof", &listRequest{Limit: 5, Mode: "global"}, "mode", "oneof", "mode must be one of: personal room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&rateRequest{ItemID: "tt1", Rating: 42}).ToAPIError()
	if single.Code != CodeValidationError {
		t.Errorf("Code = %q, want %q", single.Code, CodeValidationError)
	}
	if single.Details["field"] != "rating" {
		t.Errorf("Details[field] = %v, want rating", single.Details["field"])
	}
	if single.Details["value"] != 42 {
		t.Errorf("Details[value] = %v, want 42", single.Details["value"])
	}

	multi := ValidateStruct(&rateRequest{}).ToAPIError()
	if !strings.Contains(multi.Message, "item_id is required") || !strings.Contains(multi.Message, "rating must be at least 1") {
		t.Errorf("Message = %q, want both failures", multi.Message)
	}
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v, want 2 entries", multi.Details["fields"])
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	verr := ValidateStruct("not a struct")
	if verr == nil {
		t.Fatal("ValidateStruct(string) = nil, want error")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}
