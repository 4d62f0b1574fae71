package shein

import "encoding/json"

// Wire types for the Shein Open API, trimmed to the fields the parser and
// adapter touch. Every response rides in the code/msg/info envelope.

// envelope is the platform's uniform response wrapper
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Info json.RawMessage `json:"info"`
}

// response codes the adapter distinguishes
const (
	codeOK        = "0"
	codeDuplicate = "3006"
	codeNotFound  = "3004"
)

// spuProduct is one SPU (style) record with its purchasable SKUs underneath
type spuProduct struct {
	SPUName     string      `json:"spuName"`
	ProductCode string      `json:"productCode"`
	Description string      `json:"productDescription"`
	Currency    string      `json:"currency"`
	OnSale      int         `json:"onSaleStatus"`
	Attributes  []spuAttr   `json:"attributeList"`
	Images      []spuImage  `json:"imageList"`
	SKUs        []skuRecord `json:"skuList"`
}

// on-sale status values as the platform encodes them
const (
	onSaleYes = 1
	onSaleNo  = 0
)

// spuAttr is one attribute value on a SPU
type spuAttr struct {
	AttrID    int64  `json:"attributeId"`
	AttrName  string `json:"attributeName"`
	AttrValue string `json:"attributeValue"`
}

// spuImage is one picture on a SPU. Type 1 is the main image.
type spuImage struct {
	URL  string `json:"imageUrl"`
	Type int    `json:"imageType"`
	Sort int    `json:"imageSort"`
}

const imageTypeMain = 1

// skuRecord is one purchasable SKU under a SPU
type skuRecord struct {
	SKUCode   string      `json:"skuCode"`
	SKUID     int64       `json:"skuId"`
	Price     json.Number `json:"salePrice"`
	RRP       json.Number `json:"retailPrice"`
	Stock     int         `json:"stock"`
	AttrValue string      `json:"attributeValue"`
	AttrName  string      `json:"attributeName"`
}
