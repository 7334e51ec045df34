package models

// FlightQuery is the record submitted for prediction. JSON keys follow the
// training column names.
type FlightQuery struct {
	Month             int     `json:"MONTH"`
	CarrierName       string  `json:"CARRIER_NAME"`
	Origin            string  `json:"ORIGIN,omitempty"`
	Dest              string  `json:"DEST,omitempty"`
	CRSDepTime        float64 `json:"CRS_DEP_TIME"`
	DepTime           float64 `json:"DEP_TIME"`
	ArrTime           float64 `json:"ARR_TIME"`
	ArrDelayNew       float64 `json:"ARR_DELAY_NEW"`
	CRSArrTime        float64 `json:"CRS_ARR_TIME"`
	CRSElapsedTime    float64 `json:"CRS_ELAPSED_TIME"`
	ActualElapsedTime float64 `json:"ACTUAL_ELAPSED_TIME"`
	Distance          float64 `json:"DISTANCE,omitempty"`
}

func (q *FlightQuery) Validate() error {
	if q.Month < 1 || q.Month > 12 {
		return ErrInvalidMonth
	}
	if q.CarrierName == "" {
		return ErrMissingCarrier
	}
	return nil
}

// NumericFields returns the numeric columns keyed by training column name.
func (q FlightQuery) NumericFields() map[string]float64 {
	return map[string]float64{
		"MONTH":               float64(q.Month),
		"CRS_DEP_TIME":        q.CRSDepTime,
		"DEP_TIME":            q.DepTime,
		"ARR_TIME":            q.ArrTime,
		"ARR_DELAY_NEW":       q.ArrDelayNew,
		"CRS_ARR_TIME":        q.CRSArrTime,
		"CRS_ELAPSED_TIME":    q.CRSElapsedTime,
		"ACTUAL_ELAPSED_TIME": q.ActualElapsedTime,
		"DISTANCE":            q.Distance,
	}
}

// CategoricalFields returns the string columns. Empty values are omitted.
func (q FlightQuery) CategoricalFields() map[string]string {
	fields := make(map[string]string, 3)
	if q.CarrierName != "" {
		fields["CARRIER_NAME"] = q.CarrierName
	}
	if q.Origin != "" {
		fields["ORIGIN"] = q.Origin
	}
	if q.Dest != "" {
		fields["DEST"] = q.Dest
	}
	return fields
}

type Airport struct {
	IATACode  string  `json:"iata_code"`
	Name      string  `json:"airport"`
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
}
