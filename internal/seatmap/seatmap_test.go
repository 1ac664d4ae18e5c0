package seatmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func strPtr(s string) *string { return &s }

// envelopeDoc wraps CabinClass markup in the SOAP/OTA scaffolding.
func envelopeDoc(cabins string) []byte {
	return []byte(fmt.Sprintf(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
<soapenv:Body>
<ns:OTA_AirSeatMapRS xmlns:ns="http://www.opentravel.org/OTA/2003/05/common/">
<ns:SeatMapResponses><ns:SeatMapResponse><ns:SeatMapDetails>%s</ns:SeatMapDetails></ns:SeatMapResponse></ns:SeatMapResponses>
</ns:OTA_AirSeatMapRS>
</soapenv:Body>
</soapenv:Envelope>`, cabins))
}

// offerDoc wraps offer items, seat definitions and rows in a SeatAvailabilityRS.
func offerDoc(items, defs, rows string) []byte {
	return []byte(fmt.Sprintf(`<SeatAvailabilityRS xmlns="http://www.iata.org/IATA/EDIST/2017.2">
<ALaCarteOffer>%s</ALaCarteOffer>
<SeatMap><Cabin>%s</Cabin></SeatMap>
<DataLists><SeatDefinitionList>%s</SeatDefinitionList></DataLists>
</SeatAvailabilityRS>`, items, rows, defs))
}

func extract(t *testing.T, data []byte) (Format, *RowMap, error) {
	t.Helper()
	doc, err := Parse(data)
	require.NoError(t, err)
	return Extract(doc, DefaultNamespaces(), zaptest.NewLogger(t))
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want Format
	}{
		{name: "prefixed envelope", xml: `<soapenv:Envelope xmlns:soapenv="urn:x"/>`, want: FormatEnvelope},
		{name: "bare envelope", xml: `<Envelope/>`, want: FormatEnvelope},
		{name: "seat availability", xml: `<SeatAvailabilityRS xmlns="urn:y"/>`, want: FormatOffer},
		{name: "prefixed seat availability", xml: `<n:IATA_SeatAvailabilityRS xmlns:n="urn:y"/>`, want: FormatOffer},
		{name: "unknown root", xml: `<Foo/>`, want: FormatUnsupported},
		{name: "suffix must be at the end", xml: `<EnvelopeWrapper/>`, want: FormatUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.xml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Detect(doc.Root()))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "envelope", FormatEnvelope.String())
	assert.Equal(t, "offer", FormatOffer.String())
	assert.Equal(t, "unsupported", FormatUnsupported.String())
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatEnvelope, FormatOffer, FormatUnsupported} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatUnsupported, got)

	_, err = ParseFormat("soap")
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"<Envelope><",
		"not xml at all <",
		`<Envelope attr=unquoted/>`,
		"",
		"<Foo/><Envelope/>",
		"<Envelope/>junk text",
		"leading text<Envelope/>",
	}
	for _, input := range inputs {
		_, err := Parse([]byte(input))
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, ErrParse), "input %q: %v", input, err)
	}
}

func TestParse_AllowsProlog(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!-- seat map -->\n<Envelope/>\n"
	doc, err := Parse([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "Envelope", doc.Root().Tag)
}

func TestExtract_Unsupported(t *testing.T) {
	format, rows, err := extract(t, []byte(`<Foo><Bar/></Foo>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, errors.Is(err, ErrParse))
	assert.Equal(t, FormatUnsupported, format)
	assert.Nil(t, rows)
}

func TestEnvelope_SingleSeatWithFee(t *testing.T) {
	data := envelopeDoc(`<ns:CabinClass CabinType="Economy"><ns:RowInfo RowNumber="12">
<ns:SeatInfo><ns:Summary SeatNumber="12A" AvailableInd="true"/>
<ns:Service><ns:Fee Amount="1500" DecimalPlaces="2" CurrencyCode="USD"/></ns:Service></ns:SeatInfo>
</ns:RowInfo></ns:CabinClass>`)

	format, rows, err := extract(t, data)
	require.NoError(t, err)
	assert.Equal(t, FormatEnvelope, format)
	assert.Equal(t, []string{"12"}, rows.Rows())

	seats, ok := rows.Get("12")
	require.True(t, ok)
	want := []Seat{{
		ID:         "12A",
		Available:  true,
		CabinClass: strPtr("Economy"),
		Offer:      &Price{Amount: 15.0, Currency: "USD"},
		SeatType:   []string{},
	}}
	if diff := cmp.Diff(want, seats); diff != "" {
		t.Errorf("seats mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvelope_NoService(t *testing.T) {
	data := envelopeDoc(`<ns:CabinClass CabinType="Economy"><ns:RowInfo RowNumber="12">
<ns:SeatInfo><ns:Summary SeatNumber="12A" AvailableInd="true"/></ns:SeatInfo>
<ns:SeatInfo><ns:Summary SeatNumber="12B" AvailableInd="true"/><ns:Service/></ns:SeatInfo>
</ns:RowInfo></ns:CabinClass>`)

	_, rows, err := extract(t, data)
	require.NoError(t, err)
	seats, _ := rows.Get("12")
	require.Len(t, seats, 2)
	for _, s := range seats {
		assert.Nil(t, s.Offer, "seat %s", s.ID)
	}
}

func TestEnvelope_Features(t *testing.T) {
	data := envelopeDoc(`<ns:CabinClass CabinType="Business"><ns:RowInfo RowNumber="3">
<ns:SeatInfo><ns:Summary SeatNumber="3C" AvailableInd="no"/>
<ns:Features>Aisle</ns:Features>
<ns:Features extension="BassinetPosition">Other</ns:Features>
<ns:Features extension="Ignored">Window</ns:Features>
<ns:Features>  </ns:Features>
</ns:SeatInfo></ns:RowInfo></ns:CabinClass>`)

	_, rows, err := extract(t, data)
	require.NoError(t, err)
	seats, _ := rows.Get("3")
	require.Len(t, seats, 1)
	assert.False(t, seats[0].Available)
	assert.Equal(t, []string{"Aisle", "BassinetPosition", "Window"}, seats[0].SeatType)
	assert.NotContains(t, seats[0].SeatType, "Other")
}

func TestEnvelope_CabinClassFallsBackToRow(t *testing.T) {
	data := envelopeDoc(`<ns:CabinClass><ns:RowInfo RowNumber="1" CabinType="First">
<ns:SeatInfo><ns:Summary SeatNumber="1A" AvailableInd="true"/></ns:SeatInfo>
</ns:RowInfo><ns:RowInfo RowNumber="2">
<ns:SeatInfo><ns:Summary SeatNumber="2A" AvailableInd="true"/></ns:SeatInfo>
</ns:RowInfo></ns:CabinClass>`)

	_, rows, err := extract(t, data)
	require.NoError(t, err)
	first, _ := rows.Get("1")
	require.NotNil(t, first[0].CabinClass)
	assert.Equal(t, "First", *first[0].CabinClass)
	second, _ := rows.Get("2")
	assert.Nil(t, second[0].CabinClass)
}

func TestEnvelope_Fixture(t *testing.T) {
	format, rows, err := extract(t, readFixture(t, "envelope.xml"))
	require.NoError(t, err)
	assert.Equal(t, FormatEnvelope, format)
	assert.Equal(t, []string{"7", "8"}, rows.Rows())
	assert.Equal(t, 3, rows.SeatCount())

	row7, _ := rows.Get("7")
	require.Len(t, row7, 2)
	// the cabin group's CabinType wins over the row attribute
	assert.Equal(t, "Economy", *row7[0].CabinClass)
	assert.Equal(t, []string{"Window", "Preferred"}, row7[0].SeatType)
	assert.Equal(t, &Price{Amount: 15, Currency: "USD"}, row7[0].Offer)
	assert.False(t, row7[1].Available)
	assert.Nil(t, row7[1].Offer)

	row8, _ := rows.Get("8")
	require.Len(t, row8, 1)
	assert.InDelta(t, 299.9, row8[0].Offer.Amount, 1e-9)
	assert.Equal(t, "EUR", row8[0].Offer.Currency)
}

func TestEnvelope_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		cabins string
	}{
		{
			name:   "missing summary",
			cabins: `<ns:CabinClass CabinType="Economy"><ns:RowInfo RowNumber="1"><ns:SeatInfo/></ns:RowInfo></ns:CabinClass>`,
		},
		{
			name:   "missing row number",
			cabins: `<ns:CabinClass CabinType="Economy"><ns:RowInfo/></ns:CabinClass>`,
		},
		{
			name: "service without fee",
			cabins: `<ns:CabinClass><ns:RowInfo RowNumber="1"><ns:SeatInfo><ns:Summary SeatNumber="1A"/>
<ns:Service><ns:Description/></ns:Service></ns:SeatInfo></ns:RowInfo></ns:CabinClass>`,
		},
		{
			name: "fee amount not numeric",
			cabins: `<ns:CabinClass><ns:RowInfo RowNumber="1"><ns:SeatInfo><ns:Summary SeatNumber="1A"/>
<ns:Service><ns:Fee Amount="lots" DecimalPlaces="2" CurrencyCode="USD"/></ns:Service></ns:SeatInfo></ns:RowInfo></ns:CabinClass>`,
		},
		{
			name: "fee amount NaN",
			cabins: `<ns:CabinClass><ns:RowInfo RowNumber="1"><ns:SeatInfo><ns:Summary SeatNumber="1A"/>
<ns:Service><ns:Fee Amount="NaN" DecimalPlaces="2" CurrencyCode="USD"/></ns:Service></ns:SeatInfo></ns:RowInfo></ns:CabinClass>`,
		},
		{
			name: "fee amount infinite",
			cabins: `<ns:CabinClass><ns:RowInfo RowNumber="1"><ns:SeatInfo><ns:Summary SeatNumber="1A"/>
<ns:Service><ns:Fee Amount="Inf" DecimalPlaces="0" CurrencyCode="USD"/></ns:Service></ns:SeatInfo></ns:RowInfo></ns:CabinClass>`,
		},
		{
			name: "fee without decimal places",
			cabins: `<ns:CabinClass><ns:RowInfo RowNumber="1"><ns:SeatInfo><ns:Summary SeatNumber="1A"/>
<ns:Service><ns:Fee Amount="100" CurrencyCode="USD"/></ns:Service></ns:SeatInfo></ns:RowInfo></ns:CabinClass>`,
		},
		{
			name: "fee without currency",
			cabins: `<ns:CabinClass><ns:RowInfo RowNumber="1"><ns:SeatInfo><ns:Summary SeatNumber="1A"/>
<ns:Service><ns:Fee Amount="100" DecimalPlaces="2"/></ns:Service></ns:SeatInfo></ns:RowInfo></ns:CabinClass>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rows, err := extract(t, envelopeDoc(tt.cabins))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructure)
			assert.Nil(t, rows)
		})
	}
}

func TestEnvelope_NonFiniteFeeNamesSeat(t *testing.T) {
	_, _, err := extract(t, envelopeDoc(`<ns:CabinClass><ns:RowInfo RowNumber="3"><ns:SeatInfo><ns:Summary SeatNumber="3C"/>
<ns:Service><ns:Fee Amount="NaN" DecimalPlaces="2" CurrencyCode="USD"/></ns:Service></ns:SeatInfo></ns:RowInfo></ns:CabinClass>`))
	require.ErrorIs(t, err, ErrStructure)
	assert.Contains(t, err.Error(), "seat 3C")
}

func TestEnvelope_MatchesNamespaceNotPrefix(t *testing.T) {
	data := []byte(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>
<o:OTA_AirSeatMapRS xmlns:o="http://www.opentravel.org/OTA/2003/05/common/"><o:SeatMapResponses><o:SeatMapResponse><o:SeatMapDetails>
<o:CabinClass CabinType="Economy"><o:RowInfo RowNumber="4"><o:SeatInfo><o:Summary SeatNumber="4F" AvailableInd="true"/></o:SeatInfo></o:RowInfo></o:CabinClass>
<x:CabinClass xmlns:x="urn:other" CabinType="Economy"><x:RowInfo RowNumber="99"/></x:CabinClass>
</o:SeatMapDetails></o:SeatMapResponse></o:SeatMapResponses></o:OTA_AirSeatMapRS></s:Body></s:Envelope>`)

	_, rows, err := extract(t, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, rows.Rows())
}

func TestOffer_SingleSeat(t *testing.T) {
	data := offerDoc(
		`<ALaCarteOfferItem OfferItemID="OFFER1"><UnitPriceDetail><TotalAmount><SimpleCurrencyPrice Code="EUR">25.00</SimpleCurrencyPrice></TotalAmount></UnitPriceDetail></ALaCarteOfferItem>`,
		`<SeatDefinition SeatDefinitionID="AVAIL"><Description><Text>AVAILABLE</Text></Description></SeatDefinition>`,
		`<Row><Number>5</Number><Seat><Column>C</Column><OfferItemRefs>OFFER1</OfferItemRefs><SeatDefinitionRef>AVAIL</SeatDefinitionRef></Seat></Row>`,
	)

	format, rows, err := extract(t, data)
	require.NoError(t, err)
	assert.Equal(t, FormatOffer, format)

	seats, ok := rows.Get("5")
	require.True(t, ok)
	want := []Seat{{
		ID:        "5C",
		Available: true,
		Offer:     &Price{Amount: 25.0, Currency: "EUR"},
		SeatType:  []string{},
	}}
	if diff := cmp.Diff(want, seats); diff != "" {
		t.Errorf("seats mismatch (-want +got):\n%s", diff)
	}
}

func TestOffer_Fixture(t *testing.T) {
	_, rows, err := extract(t, readFixture(t, "offer.xml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "6"}, rows.Rows())

	row5, _ := rows.Get("5")
	require.Len(t, row5, 2)
	assert.Equal(t, "5A", row5[0].ID)
	assert.True(t, row5[0].Available)
	assert.Equal(t, []string{"WINDOW"}, row5[0].SeatType)
	assert.Equal(t, &Price{Amount: 25, Currency: "EUR"}, row5[0].Offer)

	assert.Equal(t, "5B", row5[1].ID)
	assert.False(t, row5[1].Available)
	assert.Equal(t, []string{"OCCUPIED"}, row5[1].SeatType)
	assert.Nil(t, row5[1].Offer)

	row6, _ := rows.Get("6")
	require.Len(t, row6, 1)
	assert.Equal(t, []string{"WINDOW", "LEGSPACE"}, row6[0].SeatType)
	assert.Equal(t, 12.5, row6[0].Offer.Amount)

	for _, row := range rows.Rows() {
		seats, _ := rows.Get(row)
		for _, s := range seats {
			assert.Nil(t, s.CabinClass)
			assert.NotContains(t, s.SeatType, AvailabilityToken)
		}
	}
}

func TestOffer_UnresolvedReferences(t *testing.T) {
	item := `<ALaCarteOfferItem OfferItemID="OFFER1"><UnitPriceDetail><TotalAmount><SimpleCurrencyPrice Code="EUR">25.00</SimpleCurrencyPrice></TotalAmount></UnitPriceDetail></ALaCarteOfferItem>`
	def := `<SeatDefinition SeatDefinitionID="AVAIL"><Description><Text>AVAILABLE</Text></Description></SeatDefinition>`

	tests := []struct {
		name  string
		items string
		defs  string
		rows  string
	}{
		{
			name:  "unknown offer item",
			items: item, defs: def,
			rows: `<Row><Number>1</Number><Seat><Column>A</Column><OfferItemRefs>NOPE</OfferItemRefs></Seat></Row>`,
		},
		{
			name:  "unknown seat definition",
			items: item, defs: def,
			rows: `<Row><Number>1</Number><Seat><Column>A</Column><SeatDefinitionRef>NOPE</SeatDefinitionRef></Seat></Row>`,
		},
		{
			name:  "row without number",
			items: item, defs: def,
			rows: `<Row><Seat><Column>A</Column></Seat></Row>`,
		},
		{
			name:  "seat without column",
			items: item, defs: def,
			rows: `<Row><Number>1</Number><Seat/></Row>`,
		},
		{
			name:  "offer price not numeric",
			items: `<ALaCarteOfferItem OfferItemID="X"><UnitPriceDetail><TotalAmount><SimpleCurrencyPrice Code="EUR">free</SimpleCurrencyPrice></TotalAmount></UnitPriceDetail></ALaCarteOfferItem>`,
			defs:  def,
		},
		{
			name:  "offer price NaN",
			items: `<ALaCarteOfferItem OfferItemID="X"><UnitPriceDetail><TotalAmount><SimpleCurrencyPrice Code="EUR">NaN</SimpleCurrencyPrice></TotalAmount></UnitPriceDetail></ALaCarteOfferItem>`,
			defs:  def,
		},
		{
			name:  "offer price infinite",
			items: `<ALaCarteOfferItem OfferItemID="X"><UnitPriceDetail><TotalAmount><SimpleCurrencyPrice Code="EUR">-Inf</SimpleCurrencyPrice></TotalAmount></UnitPriceDetail></ALaCarteOfferItem>`,
			defs:  def,
		},
		{
			name:  "seat definition without text",
			items: item,
			defs:  `<SeatDefinition SeatDefinitionID="AVAIL"/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rows, err := extract(t, offerDoc(tt.items, tt.defs, tt.rows))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructure)
			assert.Nil(t, rows)
		})
	}
}

func TestOffer_AvailabilityOnlyFromToken(t *testing.T) {
	data := offerDoc(
		"",
		`<SeatDefinition SeatDefinitionID="W"><Description><Text>WINDOW</Text></Description></SeatDefinition>
<SeatDefinition SeatDefinitionID="NA"><Description><Text>NOT AVAILABLE</Text></Description></SeatDefinition>`,
		`<Row><Number>9</Number><Seat><Column>A</Column><SeatDefinitionRef>W</SeatDefinitionRef><SeatDefinitionRef>NA</SeatDefinitionRef></Seat><Seat><Column>B</Column></Seat></Row>`,
	)

	_, rows, err := extract(t, data)
	require.NoError(t, err)
	seats, _ := rows.Get("9")
	require.Len(t, seats, 2)
	assert.False(t, seats[0].Available)
	assert.Equal(t, []string{"WINDOW", "NOT AVAILABLE"}, seats[0].SeatType)
	assert.False(t, seats[1].Available)
	assert.Equal(t, []string{}, seats[1].SeatType)
}

func TestRowMap(t *testing.T) {
	m := NewRowMap()
	m.Set("10", []Seat{{ID: "10A"}})
	m.Set("2", nil)
	m.Set("10", []Seat{{ID: "10B"}, {ID: "10C"}})

	assert.Equal(t, []string{"10", "2"}, m.Rows())
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.SeatCount())

	empty, ok := m.Get("2")
	require.True(t, ok)
	assert.NotNil(t, empty)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	rows := m.Rows()
	rows[0] = "changed"
	assert.Equal(t, "10", m.Rows()[0])
}
