package tilemap

// Courtyard is a small built-in arena: an open yard with a few pillars and
// a spawn in each corner.
var Courtyard = []string{
	"################",
	"#>............v#",
	"#..............#",
	"#...##....##...#",
	"#...##....##...#",
	"#..............#",
	"#......##......#",
	"#......##......#",
	"#..............#",
	"#...##....##...#",
	"#...##....##...#",
	"#..............#",
	"#^............<#",
	"################",
}

// Corridor is a single east-west corridor closed at both ends, handy for
// firing along a known line.
var Corridor = []string{
	"##########",
	"#>.......#",
	"##########",
}
