package grades

// Static difficulty tables. Values live on a shared [0,1] axis so that
// widely-agreed equivalences land close together across scales (V4 and Font
// 6B, 5.11a and French 6c). Within each table the values are strictly
// increasing; tests enforce it.

var vScale = Scale{
	system:     SystemVScale,
	discipline: Bouldering,
	entries: []entry{
		{"VB", 0.10, []string{"#4caf50"}},
		{"V0", 0.14, []string{"#4caf50"}},
		{"V1", 0.18, []string{"#8bc34a"}},
		{"V2", 0.22, []string{"#cddc39"}},
		{"V3", 0.26, []string{"#ffeb3b"}},
		{"V4", 0.30, []string{"#ffc107"}},
		{"V5", 0.34, []string{"#ff9800"}},
		{"V6", 0.38, []string{"#ff5722"}},
		{"V7", 0.42, []string{"#f44336"}},
		{"V8", 0.46, []string{"#e91e63"}},
		{"V9", 0.50, []string{"#9c27b0"}},
		{"V10", 0.54, []string{"#673ab7"}},
		{"V11", 0.58, []string{"#3f51b5"}},
		{"V12", 0.62, []string{"#2196f3"}},
		{"V13", 0.66, []string{"#03a9f4"}},
		{"V14", 0.70, []string{"#607d8b"}},
		{"V15", 0.74, []string{"#455a64"}},
		{"V16", 0.78, []string{"#263238"}},
		{"V17", 0.82, []string{"#000000"}},
	},
}

var fontScale = Scale{
	system:     SystemFont,
	discipline: Bouldering,
	entries: []entry{
		{"3", 0.08, []string{"#4caf50"}},
		{"4", 0.13, []string{"#4caf50"}},
		{"4+", 0.155, []string{"#8bc34a"}},
		{"5", 0.18, []string{"#8bc34a"}},
		{"5+", 0.22, []string{"#cddc39"}},
		{"6A", 0.25, []string{"#ffeb3b"}},
		{"6A+", 0.27, []string{"#ffeb3b", "#ffc107"}},
		{"6B", 0.29, []string{"#ffc107"}},
		{"6B+", 0.31, []string{"#ffc107", "#ff9800"}},
		{"6C", 0.33, []string{"#ff9800"}},
		{"6C+", 0.35, []string{"#ff9800", "#ff5722"}},
		{"7A", 0.38, []string{"#ff5722"}},
		{"7A+", 0.42, []string{"#f44336"}},
		{"7B", 0.45, []string{"#e91e63"}},
		{"7B+", 0.47, []string{"#e91e63", "#9c27b0"}},
		{"7C", 0.50, []string{"#9c27b0"}},
		{"7C+", 0.54, []string{"#673ab7"}},
		{"8A", 0.58, []string{"#3f51b5"}},
		{"8A+", 0.62, []string{"#2196f3"}},
		{"8B", 0.66, []string{"#03a9f4"}},
		{"8B+", 0.70, []string{"#607d8b"}},
		{"8C", 0.74, []string{"#455a64"}},
		{"8C+", 0.78, []string{"#263238"}},
		{"9A", 0.82, []string{"#000000"}},
	},
}

var ydsScale = Scale{
	system:     SystemYDS,
	discipline: Ropes,
	entries: []entry{
		{"5.5", 0.10, []string{"#4caf50"}},
		{"5.6", 0.14, []string{"#4caf50"}},
		{"5.7", 0.18, []string{"#8bc34a"}},
		{"5.8", 0.22, []string{"#cddc39"}},
		{"5.9", 0.26, []string{"#ffeb3b"}},
		{"5.10a", 0.30, []string{"#ffc107"}},
		{"5.10b", 0.33, []string{"#ffc107"}},
		{"5.10c", 0.36, []string{"#ff9800"}},
		{"5.10d", 0.39, []string{"#ff9800"}},
		{"5.11a", 0.42, []string{"#ff5722"}},
		{"5.11b", 0.45, []string{"#ff5722"}},
		{"5.11c", 0.48, []string{"#f44336"}},
		{"5.11d", 0.51, []string{"#f44336"}},
		{"5.12a", 0.54, []string{"#e91e63"}},
		{"5.12b", 0.57, []string{"#e91e63"}},
		{"5.12c", 0.60, []string{"#9c27b0"}},
		{"5.12d", 0.63, []string{"#9c27b0"}},
		{"5.13a", 0.66, []string{"#673ab7"}},
		{"5.13b", 0.69, []string{"#3f51b5"}},
		{"5.13c", 0.72, []string{"#2196f3"}},
		{"5.13d", 0.75, []string{"#03a9f4"}},
		{"5.14a", 0.78, []string{"#607d8b"}},
		{"5.14b", 0.81, []string{"#455a64"}},
		{"5.14c", 0.84, []string{"#37474f"}},
		{"5.14d", 0.87, []string{"#263238"}},
		{"5.15a", 0.90, []string{"#000000"}},
	},
}

var frenchScale = Scale{
	system:     SystemFrench,
	discipline: Ropes,
	entries: []entry{
		{"4a", 0.09, []string{"#4caf50"}},
		{"4b", 0.13, []string{"#4caf50"}},
		{"4c", 0.16, []string{"#8bc34a"}},
		{"5a", 0.19, []string{"#8bc34a"}},
		{"5b", 0.22, []string{"#cddc39"}},
		{"5c", 0.26, []string{"#ffeb3b"}},
		{"6a", 0.30, []string{"#ffc107"}},
		{"6a+", 0.33, []string{"#ffc107"}},
		{"6b", 0.36, []string{"#ff9800"}},
		{"6b+", 0.39, []string{"#ff9800"}},
		{"6c", 0.43, []string{"#ff5722"}},
		{"6c+", 0.48, []string{"#f44336"}},
		{"7a", 0.51, []string{"#f44336"}},
		{"7a+", 0.54, []string{"#e91e63"}},
		{"7b", 0.57, []string{"#e91e63"}},
		{"7b+", 0.60, []string{"#9c27b0"}},
		{"7c", 0.63, []string{"#9c27b0"}},
		{"7c+", 0.66, []string{"#673ab7"}},
		{"8a", 0.69, []string{"#3f51b5"}},
		{"8a+", 0.72, []string{"#2196f3"}},
		{"8b", 0.75, []string{"#03a9f4"}},
		{"8b+", 0.78, []string{"#607d8b"}},
		{"8c", 0.81, []string{"#455a64"}},
		{"8c+", 0.84, []string{"#37474f"}},
		{"9a", 0.87, []string{"#263238"}},
		{"9a+", 0.90, []string{"#000000"}},
	},
}
