package entities

import "strings"

// SymbolTable es el listado de criptoactivos soportados por el proveedor.
// Symbols y Slugs están alineados por índice.
type SymbolTable struct {
	symbols []string
	slugs   []string
	index   map[string]int
}

// NewSymbolTable construye la tabla validando la alineación de índices
func NewSymbolTable(symbols, slugs []string) (*SymbolTable, error) {
	if len(symbols) != len(slugs) {
		return nil, ErrMisalignedTable
	}

	index := make(map[string]int, len(symbols))
	for i, s := range symbols {
		key := strings.ToUpper(s)
		// el proveedor repite símbolos; gana la primera aparición
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	return &SymbolTable{symbols: symbols, slugs: slugs, index: index}, nil
}

// Contains reports whether symbol is listed, ignoring case
func (t *SymbolTable) Contains(symbol string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[strings.ToUpper(symbol)]
	return ok
}

// Slug returns the slug aligned with the first occurrence of symbol
func (t *SymbolTable) Slug(symbol string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.index[strings.ToUpper(symbol)]
	if !ok {
		return "", false
	}
	return t.slugs[i], true
}

func (t *SymbolTable) Symbols() []string {
	if t == nil {
		return nil
	}
	return t.symbols
}

func (t *SymbolTable) Slugs() []string {
	if t == nil {
		return nil
	}
	return t.slugs
}

func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.symbols)
}

// CurrencyTable es el listado de monedas fiat soportadas
type CurrencyTable struct {
	symbols []string
	index   map[string]struct{}
}

// NewCurrencyTable construye la tabla de monedas
func NewCurrencyTable(symbols []string) *CurrencyTable {
	index := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		index[strings.ToUpper(s)] = struct{}{}
	}
	return &CurrencyTable{symbols: symbols, index: index}
}

// Contains reports whether currency is listed, ignoring case
func (t *CurrencyTable) Contains(currency string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[strings.ToUpper(currency)]
	return ok
}

func (t *CurrencyTable) Symbols() []string {
	if t == nil {
		return nil
	}
	return t.symbols
}

func (t *CurrencyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.symbols)
}

// AssetInfo es la metadata descriptiva de un activo
type AssetInfo struct {
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Logo     string   `json:"logo,omitempty"`
	Websites []string `json:"websites,omitempty"`
}

// ProjectURL returns the first listed website, or "" when there is none
func (a AssetInfo) ProjectURL() string {
	if len(a.Websites) == 0 {
		return ""
	}
	return a.Websites[0]
}

// AssetMetadata indexa la metadata por símbolo en mayúsculas
type AssetMetadata map[string]AssetInfo
