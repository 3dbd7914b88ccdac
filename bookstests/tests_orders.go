package bookstests

import (
	"fmt"
	"net/http"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/servicedef"
)

const (
	patchedCustomerName = "patchTestUsername"
	nonexistentOrderID  = "test"
)

func createOrderTests() []testCase {
	return []testCase{
		{42, "POST /orders", "Creating a new order.", func(t *T) {
			createOrder(t)
		}},

		{43, "POST /orders | Book is not in stock",
			"Attempt to call POST /orders method with identifier of a book which is not in stock.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{
					Method: http.MethodPost,
					Path:   "/orders",
					Token:  accessToken(t),
					Body:   servicedef.RequestOrder{BookID: unavailableBookID(t), CustomerName: randomString(10)},
				})
				t.RequireErrorMessage(resp, msgNotInStock)
			}},

		{44, "POST /orders | No auth", "Attempt to call POST /orders method without authorization.", func(t *T) {
			resp := t.Call(t.Spec(http.StatusUnauthorized, schemas.Error), client.Request{
				Method: http.MethodPost,
				Path:   "/orders",
				Body:   servicedef.RequestOrder{BookID: 1, CustomerName: randomString(10)},
			})
			t.RequireErrorMessage(resp, msgMissingAuth)
		}},

		{45, "POST /orders | No body", "Attempt to call POST /orders method without request body.", func(t *T) {
			resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error), client.Request{
				Method: http.MethodPost,
				Path:   "/orders",
				Token:  accessToken(t),
			})
			t.RequireErrorMessage(resp, msgBookID)
		}},

		{46, "POST /orders | Empty body", "Attempt to call POST /orders method with empty request body.",
			func(t *T) { postOrdersWrongBody(t, "{}", msgBookID) }},

		{47, "POST /orders | No bookId", "Attempt to call POST /orders method without bookId parameter.",
			func(t *T) {
				postOrdersWrongBody(t, fmt.Sprintf(`{"customerName": "%s"}`, randomString(10)), msgBookID)
			}},

		{48, "POST /orders | Empty bookId", "Attempt to call POST /orders method with empty value of bookId parameter.",
			func(t *T) {
				postOrdersWrongBody(t, fmt.Sprintf(`{"bookId": "", "customerName": "%s"}`, randomString(10)), msgBookID)
			}},

		{49, "POST /orders | bookId = 0", "Attempt to call POST /orders method with the value of bookId parameter equal to 0.",
			func(t *T) { postOrdersWrongBookID(t, 0) }},

		{50, "POST /orders | bookId is out of range",
			"Attempt to call POST /orders method with the value of bookId parameter out of valid values range.",
			func(t *T) { postOrdersWrongBookID(t, 100) }},

		{51, "POST /orders | bookId = -1",
			"Attempt to call POST /orders method with the value of bookId parameter equal to -1 (negative value).",
			func(t *T) { postOrdersWrongBookID(t, -1) }},

		{52, "POST /orders | bookId is fractional",
			"Calling POST /orders method with the value of bookId parameter equal to 2.5 (fractional number). Fractional part is expected to be ignored.",
			func(t *T) {
				fractionalID := strconv.Itoa(unavailableBookID(t)) + ".5"
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{
					Method:  http.MethodPost,
					Path:    "/orders",
					Token:   accessToken(t),
					RawBody: ldvalue.NewOptionalString(fmt.Sprintf(`{"bookId": %s, "customerName": "%s"}`, fractionalID, randomString(10))),
				})
				t.RequireErrorMessage(resp, msgNotInStock)
			}},

		{53, "POST /orders | bookId is text", "Attempt to call POST /orders method with non-numeric value of bookId parameter.",
			func(t *T) {
				postOrdersWrongBody(t, fmt.Sprintf(`{"bookId": "test", "customerName": "%s"}`, randomString(10)), msgBookID)
			}},

		{54, "POST /orders | No customerName", "Attempt to call POST /orders method without customerName parameter.",
			func(t *T) {
				t.Call(t.Spec(http.StatusBadRequest, ""), client.Request{
					Method:  http.MethodPost,
					Path:    "/orders",
					Token:   accessToken(t),
					RawBody: ldvalue.NewOptionalString(fmt.Sprintf(`{"bookId": %d}`, availableBookID(t))),
				})
			}},

		{55, "POST /orders | Empty customerName",
			"Attempt to call POST /orders method with empty value of customerName parameter.",
			func(t *T) {
				t.Call(t.Spec(http.StatusBadRequest, ""), client.Request{
					Method: http.MethodPost,
					Path:   "/orders",
					Token:  accessToken(t),
					Body:   servicedef.RequestOrder{BookID: availableBookID(t), CustomerName: ""},
				})
			}},
	}
}

func readOrderTests() []testCase {
	return []testCase{
		{56, "GET /orders", "Shows all orders of a user.", func(t *T) {
			t.Call(t.Spec(http.StatusOK, schemas.OrdersList), client.Request{Path: "/orders", Token: accessToken(t)})
		}},

		{57, "GET /orders | No auth", "Attempt to call GET /orders method without authorization.", func(t *T) {
			resp := t.Call(t.Spec(http.StatusUnauthorized, schemas.Error), client.Request{Path: "/orders"})
			t.RequireErrorMessage(resp, msgMissingAuth)
		}},

		{58, "GET /orders | id", "Shows detailed information about order with passed identifier.", func(t *T) {
			getOrder(t, accessToken(t), currentOrder(t))
		}},

		{59, "GET /orders | id: Other user token",
			"Attempt to show information about order by calling GET /orders method with token of a user who is not the owner of the order.",
			func(t *T) {
				orderID := currentOrder(t)
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error),
					client.Request{Path: orderPath(orderID), Token: otherAccessToken(t)})
				t.RequireErrorMessage(resp, msgNoOrder(orderID))
			}},

		{60, "GET /orders | Nonexistent id", "Attempt to call GET /orders method with nonexistent identifier.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error),
					client.Request{Path: orderPath(nonexistentOrderID), Token: accessToken(t)})
				t.RequireErrorMessage(resp, msgNoOrder(nonexistentOrderID))
			}},
	}
}

func updateOrderTests() []testCase {
	return []testCase{
		{61, "PATCH /orders", "Updating an existing order.", func(t *T) {
			orderID := currentOrder(t)
			token := accessToken(t)
			t.Call(t.Spec(http.StatusNoContent, ""), client.Request{
				Method: http.MethodPatch,
				Path:   orderPath(orderID),
				Token:  token,
				Body:   servicedef.OrderPatch{CustomerName: patchedCustomerName},
			})
			t.SetEnv(KeyCustomerName, patchedCustomerName)
			requireOrderUnchanged(t, getOrder(t, token, orderID), patchedCustomerName)
		}},

		{62, "PATCH /orders | Editing all parameters", "Trying to edit all parameters of order.", func(t *T) {
			orderID := currentOrder(t)
			token := accessToken(t)
			patch := servicedef.DetailedOrder{
				ID:           "testId",
				BookID:       int(t.EnvInt(KeyBookID)) + 2,
				CustomerName: "editingAllParametersTest",
				CreatedBy:    "testCreatedBy",
				Quantity:     int(t.EnvInt(KeyQuantity)) + 1,
				Timestamp:    876506400000,
			}
			t.Call(t.Spec(http.StatusNoContent, ""), client.Request{
				Method: http.MethodPatch,
				Path:   orderPath(orderID),
				Token:  token,
				Body:   patch,
			})
			t.SetEnv(KeyCustomerName, patch.CustomerName)
			requireOrderUnchanged(t, getOrder(t, token, orderID), patch.CustomerName)
		}},

		{63, "PATCH /orders | No auth", "Attempt to call PATCH /orders method without authorization.", func(t *T) {
			resp := t.Call(t.Spec(http.StatusUnauthorized, schemas.Error), client.Request{
				Method: http.MethodPatch,
				Path:   orderPath(currentOrder(t)),
				Body:   servicedef.OrderPatch{CustomerName: patchedCustomerName},
			})
			t.RequireErrorMessage(resp, msgMissingAuth)
		}},

		{64, "PATCH /orders | Other user token",
			"Attempt to update order by calling PATCH /orders method with token of a user who is not the owner of the order.",
			func(t *T) {
				orderID := currentOrder(t)
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{
					Method: http.MethodPatch,
					Path:   orderPath(orderID),
					Token:  otherAccessToken(t),
					Body:   servicedef.OrderPatch{CustomerName: patchedCustomerName},
				})
				t.RequireErrorMessage(resp, msgNoOrder(orderID))
			}},

		{65, "PATCH /orders | No id", "Attempt to call PATCH /orders method without id parameter.", func(t *T) {
			t.Call(t.Spec(http.StatusNotFound, ""), client.Request{
				Method: http.MethodPatch,
				Path:   "/orders",
				Token:  accessToken(t),
				Body:   servicedef.OrderPatch{CustomerName: "John"},
			})
		}},

		{66, "PATCH /orders | Nonexistent id", "Attempt to call PATCH /orders method with nonexistent identifier.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{
					Method: http.MethodPatch,
					Path:   orderPath(nonexistentOrderID),
					Token:  accessToken(t),
					Body:   servicedef.OrderPatch{CustomerName: patchedCustomerName},
				})
				t.RequireErrorMessage(resp, msgNoOrder(nonexistentOrderID))
			}},

		{67, "PATCH /orders | No body", "Attempt to call PATCH /orders method without request body.", func(t *T) {
			t.Call(t.Spec(http.StatusBadRequest, ""), client.Request{
				Method: http.MethodPatch,
				Path:   orderPath(currentOrder(t)),
				Token:  accessToken(t),
			})
		}},

		{68, "PATCH /orders | Empty body", "Attempt to call PATCH /orders method with empty request body.", func(t *T) {
			t.Call(t.Spec(http.StatusBadRequest, ""), client.Request{
				Method:  http.MethodPatch,
				Path:    orderPath(currentOrder(t)),
				Token:   accessToken(t),
				RawBody: ldvalue.NewOptionalString("{}"),
			})
		}},

		{69, "PATCH /orders | Empty customerName",
			"Attempt to call PATCH /orders method with empty value of customerName parameter.",
			func(t *T) {
				t.Call(t.Spec(http.StatusBadRequest, ""), client.Request{
					Method:  http.MethodPatch,
					Path:    orderPath(currentOrder(t)),
					Token:   accessToken(t),
					RawBody: ldvalue.NewOptionalString(`{"customerName": ""}`),
				})
			}},
	}
}

func deleteOrderTests() []testCase {
	return []testCase{
		{70, "DELETE /orders", "Deletes an existing order.", func(t *T) {
			orderID := currentOrder(t)
			token := accessToken(t)
			t.Call(t.Spec(http.StatusNoContent, ""), client.Request{
				Method: http.MethodDelete,
				Path:   orderPath(orderID),
				Token:  token,
			})
			resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{Path: orderPath(orderID), Token: token})
			t.RequireErrorMessage(resp, msgNoOrder(orderID))
		}},

		{71, "Create a new order", "Creating a new order.", func(t *T) {
			createOrder(t)
		}},

		{72, "DELETE /orders | No auth", "Attempt to call DELETE /orders method without authorization.", func(t *T) {
			resp := t.Call(t.Spec(http.StatusUnauthorized, schemas.Error), client.Request{
				Method: http.MethodDelete,
				Path:   orderPath(currentOrder(t)),
			})
			t.RequireErrorMessage(resp, msgMissingAuth)
		}},

		{73, "DELETE /orders | Other user token",
			"Attempt to delete order by calling DELETE /orders method with token of a user who is not the owner of the order.",
			func(t *T) {
				orderID := currentOrder(t)
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{
					Method: http.MethodDelete,
					Path:   orderPath(orderID),
					Token:  otherAccessToken(t),
				})
				t.RequireErrorMessage(resp, msgNoOrder(orderID))
			}},

		{74, "DELETE /orders | No id", "Attempt to call DELETE /orders method without id parameter.", func(t *T) {
			t.Call(t.Spec(http.StatusNotFound, ""), client.Request{
				Method: http.MethodDelete,
				Path:   "/orders",
				Token:  accessToken(t),
			})
		}},

		{75, "DELETE /orders | Nonexistent id", "Attempt to call DELETE /orders method with nonexistent identifier.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{
					Method: http.MethodDelete,
					Path:   orderPath(nonexistentOrderID),
					Token:  accessToken(t),
				})
				t.RequireErrorMessage(resp, msgNoOrder(nonexistentOrderID))
			}},
	}
}
