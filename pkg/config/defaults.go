package config

// Default returns the built-in configuration: the 20 top corn-producing
// US counties with production-share weights, and the alert thresholds
// tuned for the corn belt growing season.
func Default() *Config {
	return &Config{
		Zones: []Zone{
			{Name: "McLean, IL", Lat: 40.48, Lon: -88.99, Weight: 0.062},
			{Name: "Iroquois, IL", Lat: 40.74, Lon: -87.83, Weight: 0.051},
			{Name: "Livingston, IL", Lat: 40.89, Lon: -88.63, Weight: 0.050},
			{Name: "Champaign, IL", Lat: 40.13, Lon: -88.20, Weight: 0.049},
			{Name: "Story, IA", Lat: 42.04, Lon: -93.46, Weight: 0.045},
			{Name: "Woodbury, IA", Lat: 42.38, Lon: -96.05, Weight: 0.044},
			{Name: "Lancaster, NE", Lat: 40.78, Lon: -96.69, Weight: 0.042},
			{Name: "Polk, IA", Lat: 41.60, Lon: -93.61, Weight: 0.041},
			{Name: "Marshall, IA", Lat: 42.03, Lon: -92.91, Weight: 0.040},
			{Name: "Boone, NE", Lat: 41.70, Lon: -98.00, Weight: 0.038},
			{Name: "Ford, IL", Lat: 40.57, Lon: -88.23, Weight: 0.037},
			{Name: "DeKalb, IL", Lat: 41.89, Lon: -88.76, Weight: 0.036},
			{Name: "Adams, IL", Lat: 39.99, Lon: -91.19, Weight: 0.035},
			{Name: "Hancock, IL", Lat: 40.40, Lon: -91.16, Weight: 0.034},
			{Name: "Plymouth, IA", Lat: 42.74, Lon: -96.22, Weight: 0.033},
			{Name: "Cass, NE", Lat: 40.91, Lon: -96.15, Weight: 0.032},
			{Name: "Otoe, NE", Lat: 40.68, Lon: -96.13, Weight: 0.031},
			{Name: "Washington, IA", Lat: 41.34, Lon: -91.69, Weight: 0.030},
			{Name: "Tama, IA", Lat: 42.08, Lon: -92.58, Weight: 0.029},
			{Name: "Benton, IA", Lat: 42.11, Lon: -91.86, Weight: 0.028},
		},
		Thresholds: Thresholds{
			AnomalyPct:   -15,
			ZScore:       -1.5,
			Delta7d:      -0.1,
			CooldownDays: 7,
			StressIndex:  -0.5,
		},
		HistoryFile: "ndvi_history.csv",
		Listen:      "127.0.0.1:8090",
	}
}
