// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/caixaescolar/caixa/internal/common"
)

// Tenant is one school's configuration record: where its spreadsheets
// live, where its snapshot database goes, and which year its reports
// reference. Tenants are plain key-value records under `tenants.<name>`
// in the config file.
type Tenant struct {
	Name            string
	TransactionsCSV string
	RegistryCSV     string
	DBPath          string
	ReferenceYear   int
}

// LoadTenant reads one tenant's record from Viper. Precedence follows
// the config file (or CAIXA_ env vars); the database path and reference
// year fall back to sensible defaults.
func LoadTenant(name string) (*Tenant, error) {
	if name == "" {
		name = viper.GetString("default_tenant")
	}
	if name == "" {
		return nil, common.NewUserError("no tenant selected; pass --tenant or set default_tenant", common.ErrMissingConfig)
	}

	prefix := "tenants." + name
	if !viper.IsSet(prefix) {
		return nil, common.NewUserError(fmt.Sprintf("tenant %q is not configured", name), common.ErrUnknownTenant)
	}

	t := &Tenant{
		Name:            name,
		TransactionsCSV: ExpandPath(viper.GetString(prefix + ".transactions_csv")),
		RegistryCSV:     ExpandPath(viper.GetString(prefix + ".registry_csv")),
		DBPath:          ExpandPath(viper.GetString(prefix + ".db")),
		ReferenceYear:   viper.GetInt(prefix + ".reference_year"),
	}
	if t.DBPath == "" {
		t.DBPath = ExpandPath("~/.local/share/caixa/" + name + ".db")
	}
	if t.ReferenceYear == 0 {
		t.ReferenceYear = time.Now().Year()
	}
	return t, nil
}
