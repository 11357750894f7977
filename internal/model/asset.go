package model

// AssetType distinguishes validated equities from crypto assets.
type AssetType string

const (
	AssetStock  AssetType = "STOCK"
	AssetCrypto AssetType = "CRYPTO"
)

// AssetInfo is the normalized metadata for a classified ticker.
// MarketCap 0 means unknown; tier boosts that require a cap don't apply.
type AssetInfo struct {
	Type        AssetType
	Ticker      string
	Name        string
	MarketCap   float64
	Description string
}
