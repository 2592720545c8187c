package salesforce

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RitwikMitra19/login-app/pkg/accounts"
	"github.com/RitwikMitra19/login-app/pkg/crm"
)

type loginEnvelope struct {
	Body struct {
		Response struct {
			Result struct {
				ServerURL string `xml:"serverUrl"`
				SessionID string `xml:"sessionId"`
			} `xml:"result"`
		} `xml:"loginResponse"`
		Fault *struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

// login authenticates with the partner SOAP API. The password sent is the
// account password followed by the security token.
func (c *Client) login(ctx context.Context) (sess crm.Session, err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveCRM("login", started, err) }()

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` +
		`<env:Envelope xmlns:xsd="http://www.w3.org/2001/XMLSchema" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" ` +
		`xmlns:env="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<env:Body><n1:login xmlns:n1="urn:partner.soap.sforce.com"><n1:username>`)
	if err := xml.EscapeText(&buf, []byte(c.cfg.Username)); err != nil {
		return crm.Session{}, err
	}
	buf.WriteString(`</n1:username><n1:password>`)
	if err := xml.EscapeText(&buf, []byte(c.cfg.Password+c.cfg.SecurityToken)); err != nil {
		return crm.Session{}, err
	}
	buf.WriteString(`</n1:password></n1:login></env:Body></env:Envelope>`)

	endpoint := fmt.Sprintf("%s/services/Soap/u/%s", c.cfg.LoginURL, c.cfg.APIVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return crm.Session{}, fmt.Errorf("%w: build login request: %w", accounts.ErrCRMAuth, err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=UTF-8")
	httpReq.Header.Set("SOAPAction", "login")

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		// Unreachable CRM is a transport problem, not a credentials problem.
		return crm.Session{}, fmt.Errorf("%w: login transport: %w", accounts.ErrCRMQuery, err)
	}
	defer resp.Body.Close()

	var env loginEnvelope
	decodeErr := xml.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env)
	if env.Body.Fault != nil {
		c.logger.ErrorContext(ctx, "salesforce login rejected",
			"status", resp.StatusCode,
			"fault_code", env.Body.Fault.Code,
			"fault_string", env.Body.Fault.String,
		)
		return crm.Session{}, fmt.Errorf("%w: %s", accounts.ErrCRMAuth, env.Body.Fault.Code)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return crm.Session{}, fmt.Errorf("%w: login http %d", accounts.ErrCRMAuth, resp.StatusCode)
	}
	if decodeErr != nil {
		return crm.Session{}, fmt.Errorf("%w: decode login response: %w", accounts.ErrCRMAuth, decodeErr)
	}

	result := env.Body.Response.Result
	server, err := url.Parse(result.ServerURL)
	if result.SessionID == "" || err != nil || server.Host == "" {
		return crm.Session{}, fmt.Errorf("%w: login response without session", accounts.ErrCRMAuth)
	}
	return crm.Session{
		ID:          result.SessionID,
		InstanceURL: server.Scheme + "://" + server.Host,
	}, nil
}
