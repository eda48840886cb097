package http

// birthChartRequest is the POST /api/mapa-completo body. Required
// fields are pointers so that legitimate zero values (hora=0, lat=0)
// still count as present.
type birthChartRequest struct {
	Ano     *int     `json:"ano" binding:"required"`
	Mes     *int     `json:"mes" binding:"required,gte=1,lte=12"`
	Dia     *int     `json:"dia" binding:"required,gte=1,lte=31"`
	Hora    *int     `json:"hora" binding:"required,gte=0,lte=23"`
	Minuto  *int     `json:"minuto" binding:"required,gte=0,lte=59"`
	Segundo *float64 `json:"segundo" binding:"omitempty,gte=0,lt=60"`
	Lat     *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lon     *float64 `json:"lon" binding:"required,gte=-180,lte=180"`
}

// positionEntry is one body entry. Velocidade is omitted in the
// birth-chart response, which carries positions only.
type positionEntry struct {
	Posicao    float64  `json:"posicao"`
	Velocidade *float64 `json:"velocidade,omitempty"`
}

type currentPositionsResponse struct {
	Data     string                   `json:"data"`
	Posicoes map[string]positionEntry `json:"posicoes"`
}

type birthDataEcho struct {
	Ano    int     `json:"ano"`
	Mes    int     `json:"mes"`
	Dia    int     `json:"dia"`
	Hora   int     `json:"hora"`
	Minuto int     `json:"minuto"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

type birthChartResponse struct {
	DadosNascimento birthDataEcho            `json:"dadosNascimento"`
	Ascendente      float64                  `json:"ascendente"`
	MeioDoCeu       float64                  `json:"meioDoCeu"`
	Planetas        map[string]positionEntry `json:"planetas"`
	Casas           map[string]float64       `json:"casas"`
}
