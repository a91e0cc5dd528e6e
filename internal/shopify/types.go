package shopify

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

type moneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type shopifyCart struct {
	ID            string             `json:"id"`
	CheckoutURL   string             `json:"checkoutUrl"`
	TotalQuantity int                `json:"totalQuantity"`
	Cost          shopifyCartCost    `json:"cost"`
	Lines         cartLineConnection `json:"lines"`
}

type shopifyCartCost struct {
	SubtotalAmount moneyV2  `json:"subtotalAmount"`
	TotalAmount    moneyV2  `json:"totalAmount"`
	TotalTaxAmount *moneyV2 `json:"totalTaxAmount"`
}

type cartLineConnection struct {
	Edges []cartLineEdge `json:"edges"`
}

type cartLineEdge struct {
	Node cartLine `json:"node"`
}

type cartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Cost     struct {
		TotalAmount moneyV2 `json:"totalAmount"`
	} `json:"cost"`
	Merchandise merchandise `json:"merchandise"`
}

type merchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []selectedOption `json:"selectedOptions"`
	Product         product          `json:"product"`
}

type selectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type product struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage *image `json:"featuredImage"`
}

type image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// cartPayload is the shape shared by every cart mutation result.
type cartPayload struct {
	Cart       *shopifyCart `json:"cart"`
	UserErrors []UserError  `json:"userErrors"`
}

type cartQueryData struct {
	Cart *shopifyCart `json:"cart"`
}

type cartCreateData struct {
	CartCreate cartPayload `json:"cartCreate"`
}

type cartLinesAddData struct {
	CartLinesAdd cartPayload `json:"cartLinesAdd"`
}

type cartLinesRemoveData struct {
	CartLinesRemove cartPayload `json:"cartLinesRemove"`
}

type cartLinesUpdateData struct {
	CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
}
