package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodbank/pkg/auth"
	"bloodbank/pkg/models"
)

func TestAddDonationCapsQuantity(t *testing.T) {
	e := setupTestEnv(t)
	donor := e.createDonor(t, "Alice", "1234567890", "O+")
	token := e.token(t, auth.Session{UserID: donor.ID, Name: donor.Name, Role: auth.RoleDonor})

	w := e.do(t, "POST", "/add_donation", url.Values{
		"blood_group": {"O+"},
		"quantity":    {"501"},
		"date":        {"2026-08-01"},
	}, token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Donation quantity cannot exceed 500 ml", decode(t, w)["message"])

	var count int64
	e.db.Model(&models.Donation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAddDonationRejectsBadInput(t *testing.T) {
	e := setupTestEnv(t)
	donor := e.createDonor(t, "Alice", "1234567890", "O+")
	token := e.token(t, auth.Session{UserID: donor.ID, Name: donor.Name, Role: auth.RoleDonor})

	cases := []url.Values{
		{"blood_group": {"O+"}, "quantity": {"0"}, "date": {"2026-08-01"}},
		{"blood_group": {"O+"}, "quantity": {"x"}, "date": {"2026-08-01"}},
		{"blood_group": {"Z+"}, "quantity": {"100"}, "date": {"2026-08-01"}},
		{"blood_group": {"O+"}, "quantity": {"100"}, "date": {"01/08/2026"}},
	}
	for _, form := range cases {
		w := e.do(t, "POST", "/add_donation", form, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, form.Encode())
	}
}

func TestDashboardDonor(t *testing.T) {
	e := setupTestEnv(t)
	donor := e.createDonor(t, "Alice", "1234567890", "O+")
	admin := e.adminToken(t)

	approved := e.submitDonation(t, donor, "O+", 450)
	e.do(t, "GET", fmt.Sprintf("/approve_donation/%d", approved.ID), nil, admin)
	e.submitDonation(t, donor, "O+", 200)

	token := e.token(t, auth.Session{UserID: donor.ID, Name: donor.Name, Role: auth.RoleDonor})
	w := e.do(t, "GET", "/dashboard_donor", nil, token)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)

	profile := resp["donor"].(map[string]interface{})
	assert.Equal(t, "Alice", profile["name"])
	assert.Equal(t, "O+", profile["bloodGroup"])

	history := resp["donationHistory"].([]interface{})
	assert.Len(t, history, 2)

	stats := resp["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalDonations"])
	assert.Equal(t, float64(450), stats["totalBlood"])
}

func TestDashboardHospital(t *testing.T) {
	e := setupTestEnv(t)
	donor := e.createDonor(t, "Alice", "1234567890", "O+")
	hospital := e.createHospital(t, "City Hospital", "555-0101")
	admin := e.adminToken(t)

	donation := e.submitDonation(t, donor, "O+", 450)
	e.do(t, "GET", fmt.Sprintf("/approve_donation/%d", donation.ID), nil, admin)
	e.submitRequest(t, hospital, "O+", 100)

	token := e.token(t, auth.Session{UserID: hospital.ID, Name: hospital.Name, Role: auth.RoleHospital})
	w := e.do(t, "GET", "/dashboard_hospital", nil, token)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)

	profile := resp["hospital"].(map[string]interface{})
	assert.Equal(t, "City Hospital", profile["name"])

	history := resp["requestHistory"].([]interface{})
	require.Len(t, history, 1)
	assert.Equal(t, "Pending", history[0].(map[string]interface{})["status"])

	availability := resp["bloodAvailability"].([]interface{})
	require.Len(t, availability, 1)
	assert.Equal(t, float64(450), availability[0].(map[string]interface{})["availableQuantity"])
}

func TestRequestBloodShowsCompatibility(t *testing.T) {
	e := setupTestEnv(t)
	donor := e.createDonor(t, "Alice", "1234567890", "AB+")
	hospital := e.createHospital(t, "City Hospital", "555-0101")
	admin := e.adminToken(t)

	donation := e.submitDonation(t, donor, "AB+", 300)
	e.do(t, "GET", fmt.Sprintf("/approve_donation/%d", donation.ID), nil, admin)

	token := e.token(t, auth.Session{UserID: hospital.ID, Name: hospital.Name, Role: auth.RoleHospital})
	w := e.do(t, "GET", "/request_blood", nil, token)

	assert.Equal(t, http.StatusOK, w.Code)
	availability := decode(t, w)["bloodAvailability"].([]interface{})
	require.Len(t, availability, 1)
	row := availability[0].(map[string]interface{})
	assert.Equal(t, "AB+", row["bloodGroup"])
	assert.Len(t, row["compatibleDonors"].([]interface{}), 8)
}
