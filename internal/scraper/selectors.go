package scraper

// Selectors locate the tracker page elements. Defaults match the flight
// tracker search form as of the last markup check and will drift.
type Selectors struct {
	OverlayClass      string `yaml:"overlay_class"`
	CookieButton      string `yaml:"cookie_button"`
	AirlineInput      string `yaml:"airline_input"`
	SuggestionItem    string `yaml:"suggestion_item"`
	FlightInput       string `yaml:"flight_input"`
	DateSelect        string `yaml:"date_select"`
	DateOption        string `yaml:"date_option"`
	SubmitButton      string `yaml:"submit_button"`
	TimeValue         string `yaml:"time_value"`
	TerminalGateValue string `yaml:"terminal_gate_value"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		OverlayClass:      "onetrust-pc-dark-filter",
		CookieButton:      "button.onetrust-close-btn-handler",
		AirlineInput:      "input[placeholder='Example: AA or American Airlines'], input[name='airlineInput']",
		SuggestionItem:    "div.basic-menu__MenuContainer-sc-eal1xr-0.dtessv div",
		FlightInput:       "input[name='flightNumberInputValue']",
		DateSelect:        "select[name='date']",
		DateOption:        "select[name='date'] option",
		SubmitButton:      "button[type='submit']",
		TimeValue:         ".kbHzdx",
		TerminalGateValue: ".ticket__TGBValue-sc-1rrbl5o-16",
	}
}
