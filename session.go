package myq

import (
	"context"
	"net/http"
	"net/url"
)

type loginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// Login authenticates with the account email and password and stores the
// returned session token. Any previously resolved account ID and cached
// devices are discarded, so logging into a different account never serves
// the old account's devices.
//
// The token is short-lived; call Login again when an operation fails with
// CodeLoginRequired.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" {
		return nil, newError(CodeInvalidArgument, "Email parameter is not specified.")
	}
	if password == "" {
		return nil, newError(CodeInvalidArgument, "Password parameter is not specified.")
	}

	resp, err := c.Do(ctx, &ServiceRequest{
		Method:  http.MethodPost,
		BaseURL: c.authBaseURL,
		Path:    routeLogin,
		Headers: map[string]string{HeaderSecurityToken: ""},
		Body:    loginRequest{Username: email, Password: password},
	})
	if err != nil {
		return nil, err
	}

	token, err := parseSecurityToken(resp.Body)
	if err != nil {
		return nil, &Error{
			Code:     CodeInvalidServiceResponse,
			Message:  "Service did not return security token in response.",
			Response: resp,
			Err:      err,
		}
	}

	c.mu.Lock()
	c.securityToken = token
	c.accountID = ""
	c.devices = nil
	c.mu.Unlock()

	return &LoginResult{
		Code:          CodeOK,
		SecurityToken: token,
	}, nil
}

// ResolveAccount fetches the ID of the logged-in account and caches it for
// the rest of the session.
//
// Other operations resolve the account ID on demand. Call ResolveAccount
// once up front before issuing concurrent per-device requests so they do
// not each resolve it.
func (c *Client) ResolveAccount(ctx context.Context) (*AccountResult, error) {
	resp, err := c.Do(ctx, &ServiceRequest{
		Method:  http.MethodGet,
		BaseURL: c.authBaseURL,
		Path:    routeAccount,
		Query:   url.Values{"expand": {"account"}},
	})
	if err != nil {
		return nil, err
	}

	accountID, err := parseAccountID(resp.Body)
	if err != nil {
		return nil, &Error{
			Code:     CodeInvalidServiceResponse,
			Message:  "Service did not return account ID in response.",
			Response: resp,
			Err:      err,
		}
	}

	c.mu.Lock()
	c.accountID = accountID
	c.mu.Unlock()

	return &AccountResult{
		Code:      CodeOK,
		AccountID: accountID,
	}, nil
}

// ensureAccountID returns the cached account ID, resolving it first if
// needed. Resolution errors are returned unchanged.
func (c *Client) ensureAccountID(ctx context.Context) (string, error) {
	if id := c.AccountID(); id != "" {
		return id, nil
	}
	result, err := c.ResolveAccount(ctx)
	if err != nil {
		return "", err
	}
	return result.AccountID, nil
}

// parseSecurityToken extracts SecurityToken from a login response.
func parseSecurityToken(body []byte) (string, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return "", err
	}
	return stringField(obj, "SecurityToken")
}

// parseAccountID extracts Account.Id from an account response.
func parseAccountID(body []byte) (string, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return "", err
	}
	account, err := objectField(obj, "Account")
	if err != nil {
		return "", err
	}
	return stringField(account, "Id")
}
