package bookstests

import (
	"fmt"
	"net/http"

	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/servicedef"
)

func apiClientsTests() []testCase {
	return []testCase{
		{26, "POST /api-clients", "Registering an API client.", func(t *T) {
			c := servicedef.Client{ClientName: randomString(10), ClientEmail: randomEmail()}
			t.Call(t.Spec(http.StatusCreated, schemas.Token), client.Request{
				Method: http.MethodPost,
				Path:   "/api-clients",
				Body:   c,
			})
			t.SetEnv(KeyOccupiedEmail, c.ClientEmail)
		}},

		{27, "POST /api-clients | clientEmail is occupied",
			"Attempt to call POST /api-clients method with already occupied email.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusConflict, schemas.Error), client.Request{
					Method: http.MethodPost,
					Path:   "/api-clients",
					Body:   servicedef.Client{ClientName: randomString(10), ClientEmail: occupiedEmail(t)},
				})
				t.RequireErrorMessage(resp, msgClientRegistered)
			}},

		{28, "POST /api-clients | No body", "Attempt to call POST /api-clients method without request body.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error),
					client.Request{Method: http.MethodPost, Path: "/api-clients"})
				t.RequireErrorMessage(resp, msgClientName)
			}},

		{29, "POST /api-clients | Empty body", "Attempt to call POST /api-clients method with empty request body.",
			func(t *T) { postAPIClientsWrongBody(t, "{}", msgClientName) }},

		{30, "POST /api-clients | No clientName", "Attempt to call POST /api-clients method without client name.",
			func(t *T) {
				postAPIClientsWrongBody(t, fmt.Sprintf(`{"clientEmail": "%s"}`, randomEmail()), msgClientName)
			}},

		{31, "POST /api-clients | No clientEmail", "Attempt to call POST /api-clients method without client email.",
			func(t *T) {
				postAPIClientsWrongBody(t, fmt.Sprintf(`{"clientName": "%s"}`, randomString(10)), msgClientEmail)
			}},

		{32, "POST /api-clients | Empty clientName", "Attempt to call POST /api-clients method with empty client name.",
			func(t *T) { registerWithName(t, "") }},

		{33, "POST /api-clients | clientName contains only 1 symbol",
			"Attempt to call POST /api-clients method with client name containing only one symbol.",
			func(t *T) { registerWithName(t, "a") }},

		{34, "POST /api-clients | Empty clientEmail", "Attempt to call POST /api-clients method with empty client email.",
			func(t *T) { postAPIClientsWrongEmail(t, "") }},

		{35, "POST /api-clients | Invalid clientEmail: no @ symbol",
			"Attempt to call POST /api-clients method with client email which doesn't contain @ symbol.",
			func(t *T) { postAPIClientsWrongEmail(t, "username") }},

		{36, "POST /api-clients | Invalid clientEmail: no domain",
			"Attempt to call POST /api-clients method with client email which doesn't contain domain.",
			func(t *T) { postAPIClientsWrongEmail(t, "username@") }},

		{37, "POST /api-clients | Invalid clientEmail: no dot in domain",
			"Attempt to call POST /api-clients method with client email which doesn't contain dot in its domain.",
			func(t *T) { postAPIClientsWrongEmail(t, "username@example") }},

		{38, "POST /api-clients | Invalid clientEmail: no top-level domain after dot",
			"Attempt to call POST /api-clients method with client email which doesn't contain top-level domain after dot.",
			func(t *T) { postAPIClientsWrongEmail(t, "username@example.") }},

		{39, "POST /api-clients | Invalid clientEmail: top-level domain contains only 1 symbol",
			"Attempt to call POST /api-clients method with client email which contains one-character top-level domain.",
			func(t *T) { postAPIClientsWrongEmail(t, "username@example.c") }},

		{40, "Create client token", "Registering an API client.", func(t *T) {
			t.SetEnv(KeyAccessToken, registerClient(t))
		}},

		{41, "Create other client token", "Registering another API client.", func(t *T) {
			t.SetEnv(KeyOtherAccessToken, registerClient(t))
		}},
	}
}

func registerWithName(t *T, name string) {
	resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error), client.Request{
		Method: http.MethodPost,
		Path:   "/api-clients",
		Body:   servicedef.Client{ClientName: name, ClientEmail: randomEmail()},
	})
	t.RequireErrorMessage(resp, msgClientName)
}
