package e2e

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

type recordEnvelope struct {
	Success bool           `json:"success"`
	Record  map[string]any `json:"record"`
}

type listEnvelope struct {
	Success    bool             `json:"success"`
	Records    []map[string]any `json:"records"`
	Pagination struct {
		TotalRecords int `json:"total_records"`
	} `json:"pagination"`
}

func createRecord(t *testing.T, ts *TestServer, token, path string, body any) map[string]any {
	t.Helper()
	client := ts.NewClient(token)
	resp := client.POST(t, path, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST %s: expected 201, got %d", path, resp.StatusCode)
	}
	var env recordEnvelope
	decodeBody(t, resp, &env)
	if id, _ := env.Record["id"].(string); id == "" {
		t.Fatalf("POST %s: record has no id", path)
	}
	return env.Record
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

// TestHospitalAdminScenario drives the whole API through one realistic flow:
// registration, scheduling, admission, billing and charting, including the
// conflict and lifecycle rules along the way.
func TestHospitalAdminScenario(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	admin := ts.NewClient(ts.Token(t, "admin-1", "ADMIN"))
	slot := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	// Registration
	patient := createRecord(t, ts, admin.Token, "/patients", map[string]any{
		"firstName": "Clara",
		"lastName":  "Ibanez",
		"email":     "clara.ibanez@example.com",
		"phone":     "+34600111222",
	})
	patientID := patient["id"].(string)

	resp := admin.POST(t, "/patients", map[string]any{
		"firstName": "Other",
		"lastName":  "Person",
		"email":     "clara.ibanez@example.com",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate patient email: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	practitioner := createRecord(t, ts, admin.Token, "/practitioners", map[string]any{
		"firstName":     "Miguel",
		"lastName":      "Soler",
		"email":         "miguel.soler@example.com",
		"licenseNumber": "LIC-9001",
		"specialty":     "Cardiology",
	})
	practitionerID := practitioner["id"].(string)

	// Scheduling
	appt := createRecord(t, ts, admin.Token, "/appointments", map[string]any{
		"patientId":      patientID,
		"practitionerId": practitionerID,
		"startTime":      slot.Format(time.RFC3339),
		"reason":         "Initial consultation",
	})
	apptID := appt["id"].(string)
	if appt["status"] != "scheduled" {
		t.Fatalf("new appointment status = %v, want scheduled", appt["status"])
	}

	resp = admin.POST(t, "/appointments", map[string]any{
		"patientId":      patientID,
		"practitionerId": practitionerID,
		"startTime":      slot.Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double booking: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Cancelling releases the slot
	resp = admin.POST(t, "/appointments/"+apptID+"/transition", map[string]any{"action": "cancel"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel appointment: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	createRecord(t, ts, admin.Token, "/appointments", map[string]any{
		"patientId":      patientID,
		"practitionerId": practitionerID,
		"startTime":      slot.Format(time.RFC3339),
	})

	// A cancelled appointment cannot be completed
	resp = admin.POST(t, "/appointments/"+apptID+"/transition", map[string]any{"action": "complete"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("complete cancelled appointment: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Admission
	hosp := createRecord(t, ts, admin.Token, "/hospitalizations", map[string]any{
		"patientId":      patientID,
		"practitionerId": practitionerID,
		"roomNumber":     "204-B",
		"admittedAt":     slot.Format(time.RFC3339),
		"diagnosis":      "Arrhythmia",
	})
	hospID := hosp["id"].(string)

	resp = admin.POST(t, "/hospitalizations", map[string]any{
		"patientId":      patientID,
		"practitionerId": practitionerID,
		"roomNumber":     "204-B",
		"admittedAt":     slot.Add(time.Hour).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("occupied room: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = admin.POST(t, "/hospitalizations/"+hospID+"/transition", map[string]any{"action": "complete"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("discharge: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Billing: totals are derived from line items
	invoice := createRecord(t, ts, admin.Token, "/invoices", map[string]any{
		"patientId":     patientID,
		"invoiceNumber": "INV-2026-0001",
		"issuedAt":      slot.Format(time.RFC3339),
		"dueDate":       slot.AddDate(0, 1, 0).Format(time.RFC3339),
	})
	invoiceID := invoice["id"].(string)

	createRecord(t, ts, admin.Token, "/invoice-items", map[string]any{
		"invoiceId":      invoiceID,
		"description":    "Cardiology consultation",
		"quantity":       1,
		"unitPriceCents": 15000,
	})
	item := createRecord(t, ts, admin.Token, "/invoice-items", map[string]any{
		"invoiceId":      invoiceID,
		"description":    "ECG",
		"quantity":       2,
		"unitPriceCents": 4500,
	})

	var got recordEnvelope
	decodeBody(t, admin.GET(t, "/invoices/"+invoiceID), &got)
	if total := got.Record["totalCents"].(float64); total != 24000 {
		t.Fatalf("invoice total = %v, want 24000", total)
	}

	// Removing a line item recomputes the total
	resp = admin.DELETE(t, "/invoice-items/"+item["id"].(string))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete line item: expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	decodeBody(t, admin.GET(t, "/invoices/"+invoiceID), &got)
	if total := got.Record["totalCents"].(float64); total != 15000 {
		t.Fatalf("invoice total after item delete = %v, want 15000", total)
	}

	resp = admin.POST(t, "/invoices/"+invoiceID+"/transition", map[string]any{"action": "pay"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay invoice: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Charting: one open record per patient
	record := createRecord(t, ts, admin.Token, "/medical-records", map[string]any{
		"patientId":    patientID,
		"recordNumber": "MR-0001",
	})
	recordID := record["id"].(string)

	resp = admin.POST(t, "/medical-records", map[string]any{
		"patientId":    patientID,
		"recordNumber": "MR-0002",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second open record: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	createRecord(t, ts, admin.Token, "/medical-record-entries", map[string]any{
		"recordId":       recordID,
		"practitionerId": practitionerID,
		"note":           "Sinus rhythm restored, discharge approved.",
		"observedAt":     slot.Format(time.RFC3339),
	})

	resp = admin.POST(t, "/medical-records/"+recordID+"/transition", map[string]any{"action": "close"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close record: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	createRecord(t, ts, admin.Token, "/medical-records", map[string]any{
		"patientId":    patientID,
		"recordNumber": "MR-0002",
	})

	// Soft delete hides from listings but not direct reads
	resp = admin.POST(t, "/patients/"+patientID+"/deactivate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deactivate patient: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	var listing listEnvelope
	decodeBody(t, admin.GET(t, "/patients"), &listing)
	if listing.Pagination.TotalRecords != 0 {
		t.Fatalf("active patient listing after deactivate = %d records, want 0", listing.Pagination.TotalRecords)
	}
	decodeBody(t, admin.GET(t, "/patients/"+patientID), &got)
	if got.Record["active"] != false {
		t.Fatalf("deactivated patient still active: %v", got.Record["active"])
	}

	resp = admin.POST(t, "/patients/"+patientID+"/reactivate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reactivate patient: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Events were published for the main flow
	if n := ts.MockPublisher.CountByKey("patient.created"); n != 2 {
		t.Errorf("patient.created events = %d, want 2", n)
	}
	if n := ts.MockPublisher.CountByKey("invoice.status_changed"); n == 0 {
		t.Error("expected invoice.status_changed events")
	}
}

func TestAuthorizationBoundaries(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	// No token
	anon := ts.NewClient("")
	resp := anon.GET(t, "/patients")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Nurse may read patients but not create them
	nurse := ts.NewClient(ts.Token(t, "nurse-1", "NURSE"))
	resp = nurse.GET(t, "/patients")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("nurse list patients: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = nurse.POST(t, "/patients", map[string]any{
		"firstName": "Nope",
		"lastName":  "Nope",
		"email":     "nope@example.com",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("nurse create patient: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Health endpoint stays public
	resp = anon.GET(t, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
