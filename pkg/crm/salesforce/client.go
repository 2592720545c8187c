package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/RitwikMitra19/login-app/pkg/accounts"
	"github.com/RitwikMitra19/login-app/pkg/crm"
	"github.com/RitwikMitra19/login-app/pkg/metrics"
)

const (
	DefaultLoginURL   = "https://login.salesforce.com"
	DefaultAPIVersion = "59.0"

	maxResponseBytes = 8 << 20

	accountFields = "Id, Name, Type, Industry, Phone, Website, AnnualRevenue, BillingCity, BillingState, BillingCountry"
)

// errSessionInvalid marks a 401 from the REST API; the cached session is
// dropped and the call retried once with a fresh login.
var errSessionInvalid = errors.New("salesforce session invalid")

type Config struct {
	LoginURL      string
	Username      string
	Password      string
	SecurityToken string
	APIVersion    string
	// SessionTTL bounds how long a login is reused; it should stay below the
	// org's session timeout.
	SessionTTL  time.Duration
	HTTPTimeout time.Duration
}

// Client is a minimal Salesforce client: SOAP login with service credentials
// and read-only SOQL over the REST query endpoint. It implements accounts.Source.
type Client struct {
	cfg     Config
	store   crm.SessionStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	httpDo  *http.Client
}

func New(cfg Config, store crm.SessionStore, m *metrics.Metrics, logger *slog.Logger) *Client {
	if cfg.LoginURL == "" {
		cfg.LoginURL = DefaultLoginURL
	}
	cfg.LoginURL = strings.TrimRight(cfg.LoginURL, "/")
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if store == nil {
		store = crm.NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		store:   store,
		metrics: m,
		logger:  logger,
		httpDo: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

type record struct {
	ID             string   `json:"Id"`
	Name           string   `json:"Name"`
	Type           string   `json:"Type"`
	Industry       string   `json:"Industry"`
	Phone          string   `json:"Phone"`
	Website        string   `json:"Website"`
	AnnualRevenue  *float64 `json:"AnnualRevenue"`
	BillingCity    string   `json:"BillingCity"`
	BillingState   string   `json:"BillingState"`
	BillingCountry string   `json:"BillingCountry"`
}

type queryResponse struct {
	TotalSize int      `json:"totalSize"`
	Done      bool     `json:"done"`
	Records   []record `json:"records"`
}

type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// ListAccounts returns one name-ordered window of Account records.
func (c *Client) ListAccounts(ctx context.Context, limit, offset int) ([]accounts.Account, error) {
	soql := fmt.Sprintf("SELECT %s FROM Account ORDER BY Name ASC LIMIT %d OFFSET %d", accountFields, limit, offset)
	var out queryResponse
	if err := c.query(ctx, soql, &out); err != nil {
		return nil, err
	}
	items := make([]accounts.Account, 0, len(out.Records))
	for _, r := range out.Records {
		items = append(items, accounts.Account{
			ID:             r.ID,
			Name:           r.Name,
			Type:           r.Type,
			Industry:       r.Industry,
			Phone:          r.Phone,
			Website:        r.Website,
			AnnualRevenue:  r.AnnualRevenue,
			BillingCity:    r.BillingCity,
			BillingState:   r.BillingState,
			BillingCountry: r.BillingCountry,
		})
	}
	return items, nil
}

func (c *Client) CountAccounts(ctx context.Context) (int, error) {
	var out queryResponse
	if err := c.query(ctx, "SELECT COUNT() FROM Account", &out); err != nil {
		return 0, err
	}
	return out.TotalSize, nil
}

// query runs soql, retrying once with a fresh session if the cached one was rejected.
func (c *Client) query(ctx context.Context, soql string, out *queryResponse) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		sess, err := c.session(ctx)
		if err != nil {
			return err
		}
		err = c.execute(ctx, sess, soql, out)
		if errors.Is(err, errSessionInvalid) {
			if delErr := c.store.Delete(ctx, c.cfg.Username); delErr != nil {
				c.logger.WarnContext(ctx, "drop crm session", "error", delErr)
			}
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, errSessionInvalid) {
		return fmt.Errorf("%w: %w", accounts.ErrCRMQuery, err)
	}
	return err
}

func (c *Client) session(ctx context.Context) (crm.Session, error) {
	sess, found, err := c.store.Get(ctx, c.cfg.Username)
	if err != nil {
		c.logger.WarnContext(ctx, "read cached crm session", "error", err)
	}
	if found {
		return sess, nil
	}
	sess, err = c.login(ctx)
	if err != nil {
		return crm.Session{}, err
	}
	if err := c.store.Set(ctx, c.cfg.Username, sess, c.cfg.SessionTTL); err != nil {
		c.logger.WarnContext(ctx, "cache crm session", "error", err)
	}
	return sess, nil
}

func (c *Client) execute(ctx context.Context, sess crm.Session, soql string, out *queryResponse) (err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveCRM("query", started, err) }()

	endpoint := fmt.Sprintf("%s/services/data/v%s/query?q=%s", sess.InstanceURL, c.cfg.APIVersion, url.QueryEscape(soql))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", accounts.ErrCRMQuery, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+sess.ID)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", accounts.ErrCRMQuery, err)
	}
	defer resp.Body.Close()
	body := io.LimitReader(resp.Body, maxResponseBytes)

	if resp.StatusCode == http.StatusUnauthorized {
		return errSessionInvalid
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErrs []apiError
		_ = json.NewDecoder(body).Decode(&apiErrs)
		code := "UNKNOWN"
		if len(apiErrs) > 0 {
			code = apiErrs[0].ErrorCode
			c.logger.ErrorContext(ctx, "salesforce query rejected",
				"status", resp.StatusCode,
				"error_code", apiErrs[0].ErrorCode,
				"error_message", apiErrs[0].Message,
			)
		}
		return fmt.Errorf("%w: salesforce http %d %s", accounts.ErrCRMQuery, resp.StatusCode, code)
	}
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", accounts.ErrCRMQuery, err)
	}
	return nil
}
