package httpHandler

import (
	"encoding/json"
	"net/http"
	"testing"
)

const registerBody = `{
	"name": "AWG-Honolulu-01",
	"description": "Atmospheric water generator",
	"region": "Honolulu",
	"tech": "AWG",
	"oracleIndex": "ORACLE123",
	"account": "rAbC"
}`

func TestRegisterDevice(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/device", registerBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success, got %v", resp)
	}
	if len(f.devices.devices) != 1 {
		t.Fatalf("device not stored")
	}
}

func TestRegisterDeviceMissingFields(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/device", `{"name": "AWG-Honolulu-01"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRegisterDeviceConflicts(t *testing.T) {
	f := newFixture()
	if w := f.do(http.MethodPost, "/api/device", registerBody); w.Code != http.StatusOK {
		t.Fatalf("seed register failed: %d", w.Code)
	}

	// Duplicate name.
	dup := `{"name":"AWG-Honolulu-01","description":"x","region":"x","tech":"x","oracleIndex":"OTHER","account":"rX"}`
	w := f.do(http.MethodPost, "/api/device", dup)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["field"] != "name" {
		t.Fatalf("expected field=name, got %v", resp["field"])
	}

	// Duplicate oracle index.
	dup = `{"name":"Other","description":"x","region":"x","tech":"x","oracleIndex":"ORACLE123","account":"rX"}`
	w = f.do(http.MethodPost, "/api/device", dup)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["field"] != "oracleIndex" {
		t.Fatalf("expected field=oracleIndex, got %v", resp["field"])
	}

	if len(f.devices.devices) != 1 {
		t.Fatalf("conflicting registrations must leave the registry unchanged")
	}
}

func TestListDevicesByAccount(t *testing.T) {
	f := newFixture()
	f.do(http.MethodPost, "/api/device", registerBody)

	w := f.do(http.MethodGet, "/api/devices/rAbC", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Devices []map[string]interface{} `json:"devices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Devices) != 1 || resp.Devices[0]["name"] != "AWG-Honolulu-01" {
		t.Fatalf("unexpected devices: %v", resp.Devices)
	}
}

func TestRemoveDevice(t *testing.T) {
	f := newFixture()
	f.do(http.MethodPost, "/api/device", registerBody)

	w := f.do(http.MethodDelete, "/api/device/rAbC/AWG-Honolulu-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(f.devices.devices) != 0 {
		t.Fatalf("device not removed")
	}
}
