// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package domaincheck verifies that a domain resolves to this machine.
package domaincheck

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

var netLookupHost = net.DefaultResolver.LookupHost

// HTTPClient fetches remote resources.
type HTTPClient interface {
	Get(ctx context.Context, path string) (*http.Response, error)
}

// Checker compares DNS answers with the machine's public address.
type Checker struct {
	client      HTTPClient
	publicIPURL string
}

// NewChecker returns a Checker that asks publicIPURL for the public
// address of this machine.
func NewChecker(client HTTPClient, publicIPURL string) *Checker {
	return &Checker{client: client, publicIPURL: publicIPURL}
}

// Check resolves domain and returns the machine's public IP when one
// of the resolved addresses matches it.
func (c *Checker) Check(ctx context.Context, domain string) (string, error) {
	addrs, err := netLookupHost(ctx, domain)
	if err != nil {
		return "", errors.Annotatef(err, "resolving %s", domain)
	}
	if len(addrs) == 0 {
		return "", errors.NotFoundf("addresses for %s", domain)
	}
	ip, err := c.PublicIP(ctx)
	if err != nil {
		return "", errors.Trace(err)
	}
	resolved := set.NewStrings()
	for _, addr := range addrs {
		if parsed := net.ParseIP(addr); parsed != nil {
			resolved.Add(parsed.String())
		}
	}
	if !resolved.Contains(ip) {
		return "", errors.Errorf("%s resolves to %s, not to this machine (%s)",
			domain, strings.Join(resolved.SortedValues(), ", "), ip)
	}
	return ip, nil
}

// PublicIP asks the configured service for this machine's public
// address.
func (c *Checker) PublicIP(ctx context.Context) (string, error) {
	resp, err := c.client.Get(ctx, c.publicIPURL)
	if err != nil {
		return "", errors.Annotate(err, "looking up public IP")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("looking up public IP: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", errors.Annotate(err, "looking up public IP")
	}
	ip := net.ParseIP(strings.TrimSpace(string(body)))
	if ip == nil {
		return "", errors.NotValidf("public IP %q", strings.TrimSpace(string(body)))
	}
	return ip.String(), nil
}
