package domain

// sampleDataset is a small multi-region, multi-year fixture shared by tests.
func sampleDataset() Dataset {
	return Dataset{
		{CountryName: "India", ISO3: "IND", WHORegion: "South-East Asia Region", Year: 2019, PM25: ptr(50), PM10: ptr(100), NO2: ptr(25)},
		{CountryName: "India", ISO3: "IND", WHORegion: "South-East Asia Region", Year: 2020, PM25: ptr(40), PM10: nil, NO2: ptr(20)},
		{CountryName: "Finland", ISO3: "FIN", WHORegion: "European Region", Year: 2019, PM25: ptr(4), PM10: ptr(10), NO2: nil},
		{CountryName: "Finland", ISO3: "FIN", WHORegion: "European Region", Year: 2020, PM25: ptr(5), PM10: ptr(11), NO2: ptr(8)},
		{CountryName: "Poland", ISO3: "POL", WHORegion: "European Region", Year: 2019, PM25: ptr(20), PM10: ptr(28), NO2: ptr(15)},
		{CountryName: "Poland", ISO3: "POL", WHORegion: "European Region", Year: 2020, PM25: nil, PM10: nil, NO2: nil},
		{CountryName: "Chile", ISO3: "CHL", WHORegion: "Region of the Americas", Year: 2020, PM25: ptr(22), PM10: ptr(45), NO2: ptr(12)},
	}
}
