package depreciation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// AssetFile is the asset register relative to a data directory.
const AssetFile = "assets/assets.csv"

// Header is the CSV header for assets.csv.
var Header = []string{"asset_id", "name", "gl_account_id", "purchase_date", "cost", "useful_life_years", "residual_value", "status"}

const (
	numFields    = 8
	colID        = 0
	colName      = 1
	colGLAccount = 2
	colPurchase  = 3
	colCost      = 4
	colLife      = 5
	colResidual  = 6
	colStatus    = 7
)

// ReadAssets reads assets.csv.
func ReadAssets(r io.Reader) ([]model.Asset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading assets CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var assets []model.Asset
	for i, rec := range records[1:] {
		a, err := UnmarshalAsset(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// WriteAssets writes assets to w including the header.
func WriteAssets(w io.Writer, assets []model.Asset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range assets {
		if err := cw.Write(MarshalAsset(a)); err != nil {
			return fmt.Errorf("writing asset %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAsset converts an Asset to a CSV row.
func MarshalAsset(a model.Asset) []string {
	row := make([]string, numFields)
	row[colID] = a.ID
	row[colName] = a.Name
	row[colGLAccount] = a.GLAccountID
	row[colPurchase] = a.PurchaseDate.Format(ledger.DateFormat)
	row[colCost] = a.Cost.StringFixed(2)
	row[colLife] = strconv.Itoa(a.UsefulLifeYears)
	row[colResidual] = a.ResidualValue.StringFixed(2)
	row[colStatus] = string(a.Status)
	return row
}

// UnmarshalAsset converts a CSV row to an Asset. An empty status means
// ACTIVE.
func UnmarshalAsset(record []string) (model.Asset, error) {
	if len(record) != numFields {
		return model.Asset{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return model.Asset{}, fmt.Errorf("empty asset_id")
	}

	purchased, err := time.Parse(ledger.DateFormat, record[colPurchase])
	if err != nil {
		return model.Asset{}, fmt.Errorf("parsing purchase_date %q: %w", record[colPurchase], err)
	}
	cost, err := ledger.ParseAmount(record[colCost])
	if err != nil {
		return model.Asset{}, fmt.Errorf("parsing cost %q: %w", record[colCost], err)
	}
	residual, err := ledger.ParseAmount(record[colResidual])
	if err != nil {
		return model.Asset{}, fmt.Errorf("parsing residual_value %q: %w", record[colResidual], err)
	}

	life := 0
	if s := strings.TrimSpace(record[colLife]); s != "" {
		life, err = strconv.Atoi(s)
		if err != nil || life < 0 {
			return model.Asset{}, fmt.Errorf("invalid useful_life_years %q", record[colLife])
		}
	}

	status := model.AssetStatus(strings.ToUpper(strings.TrimSpace(record[colStatus])))
	switch status {
	case "":
		status = model.AssetActive
	case model.AssetActive, model.AssetDisposed:
	default:
		return model.Asset{}, fmt.Errorf("unknown status %q", record[colStatus])
	}

	return model.Asset{
		ID:              record[colID],
		Name:            record[colName],
		GLAccountID:     record[colGLAccount],
		PurchaseDate:    purchased,
		Cost:            cost,
		UsefulLifeYears: life,
		ResidualValue:   residual,
		Status:          status,
	}, nil
}
