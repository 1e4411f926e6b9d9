package chainstate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/pkg/errors"
)

// NodeClient implements Source against the REST API of a chain node.
type NodeClient struct {
	baseURL string
	client  *http.Client
}

func NewNodeClient(baseURL string, timeout time.Duration) *NodeClient {
	return &NodeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type nodeInfo struct {
	FullHeight uint32 `json:"fullHeight"`
}

func (n *NodeClient) Height(ctx context.Context) (uint32, error) {
	var info nodeInfo
	if err := n.getJSON(ctx, "/info", &info); err != nil {
		return 0, err
	}
	return info.FullHeight, nil
}

func (n *NodeClient) LastHeaders(ctx context.Context, count int) ([]Header, error) {
	var headers []Header
	if err := n.getJSON(ctx, fmt.Sprintf("/blocks/lastHeaders/%d", count), &headers); err != nil {
		return nil, err
	}
	return headers, nil
}

func (n *NodeClient) UnspentBoxes(ctx context.Context, address string) ([]ergo.Box, error) {
	var boxes []ergo.Box
	path := "/blockchain/box/unspent/byAddress/" + url.PathEscape(address)
	if err := n.getJSON(ctx, path, &boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

type nodeTransaction struct {
	NumConfirmations int64 `json:"numConfirmations"`
}

func (n *NodeClient) Confirmations(ctx context.Context, txID string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/blockchain/transaction/byId/"+url.PathEscape(txID), nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create request")
	}

	res, err := n.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	defer res.Body.Close()

	// An unknown transaction is a definitive answer, not an upstream
	// failure.
	if res.StatusCode == http.StatusNotFound {
		return ConfirmationsUnknown, nil
	}
	if res.StatusCode != http.StatusOK {
		return 0, errors.Wrapf(ErrUpstreamUnavailable, "unexpected status %d", res.StatusCode)
	}

	var tx nodeTransaction
	if err := json.NewDecoder(res.Body).Decode(&tx); err != nil {
		return 0, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	return tx.NumConfirmations, nil
}

func (n *NodeClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	res, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrUpstreamUnavailable, "GET %s: unexpected status %d", path, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	return nil
}
