package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func tourAt(id int64, dest string) Tour {
	t := Tour{ID: id, Name: "tour"}
	if dest != "" {
		t.Destination = &Destination{ID: id, Name: dest}
	}
	return t
}

func TestFilterByDestination(t *testing.T) {
	tours := []Tour{
		tourAt(1, "Tarkarli Beach"),
		tourAt(2, "Malvan"),
		tourAt(3, "Devbag TARKARLI point"),
		tourAt(4, ""),
	}

	if got := FilterByDestination(tours, ""); len(got) != len(tours) {
		t.Fatalf("empty filter should keep everything, got %d", len(got))
	}

	for _, q := range []string{"tarkarli", "TARK", "Arl", "malvan", "nowhere", "point"} {
		got := FilterByDestination(tours, q)
		seen := map[int64]bool{}
		for _, tr := range tours {
			seen[tr.ID] = true
		}
		for _, tr := range got {
			if !seen[tr.ID] {
				t.Fatalf("%q: result %d not in input", q, tr.ID)
			}
			if !strings.Contains(strings.ToLower(tr.DestinationName()), strings.ToLower(q)) {
				t.Fatalf("%q: %q does not contain filter", q, tr.DestinationName())
			}
		}
	}

	if got := FilterByDestination(tours, "tarkarli"); len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected tarkarli result %+v", got)
	}
}

func TestTourInputNormalize(t *testing.T) {
	in := TourInput{
		Name:     "  Fort walk ",
		Services: []string{" Guide", "guide", "", "Lunch"},
		Images:   []string{" a.jpg ", " "},
	}
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	in.Normalize(now)
	if in.Name != "Fort walk" || in.Date != "2026-03-09" {
		t.Fatalf("unexpected normalize result %+v", in)
	}
	if len(in.Services) != 2 || len(in.Images) != 1 || in.Images[0] != "a.jpg" {
		t.Fatalf("unexpected lists %v %v", in.Services, in.Images)
	}
}

func TestTourInputValidation(t *testing.T) {
	valid := TourInput{
		Name: "Fort walk", DestinationID: 1, Description: "d", PickupPoint: "Malvan jetty",
		Duration: 1, MaxPeople: 10, Price: 150000, Date: "2026-05-01",
	}
	if err := Validate(&valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := map[string]func(in *TourInput){
		"max_people": func(in *TourInput) { in.MaxPeople = 0 },
		"duration":   func(in *TourInput) { in.Duration = 0 },
		"price":      func(in *TourInput) { in.Price = -1 },
		"date":       func(in *TourInput) { in.Date = "01/05/2026" },
		"name":       func(in *TourInput) { in.Name = "" },
	}
	for field, edit := range cases {
		t.Run(field, func(t *testing.T) {
			in := valid
			edit(&in)
			err := Validate(&in)
			ve, ok := err.(*ValidationError)
			if !ok || ve.Field != field {
				t.Fatalf("expected validation error on %s, got %v", field, err)
			}
		})
	}
}

func TestTourPriceOverflowRejected(t *testing.T) {
	body := `{"name":"Fort walk","price":184467440737095517}`
	var in TourInput
	if err := json.Unmarshal([]byte(body), &in); err == nil {
		t.Fatalf("oversized price decoded as %s", in.Price)
	}
	var p TourPatch
	if err := json.Unmarshal([]byte(body), &p); err == nil {
		t.Fatalf("oversized patch price decoded as %v", p.Price)
	}
}

func TestTourPatch(t *testing.T) {
	var p TourPatch
	if err := json.Unmarshal([]byte(`{"name":"  New ","price":2500.5}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p.Normalize()
	if err := Validate(&p); err != nil {
		t.Fatalf("patch rejected: %v", err)
	}
	got := p.Apply(Tour{Name: "Old", MaxPeople: 4, Price: 100})
	if got.Name != "New" || got.Price != 250050 || got.MaxPeople != 4 {
		t.Fatalf("unexpected patched tour %+v", got)
	}

	blank := ""
	bad := TourPatch{Name: &blank}
	if err := Validate(&bad); err == nil {
		t.Fatalf("blank name must be rejected")
	}
	if !(&TourPatch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
}
