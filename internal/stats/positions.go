package stats

// PlayerPositions maps player tags to their role on the current season's
// rosters. Maintained by hand; the source does not expose positions.
var PlayerPositions = map[string]string{
	// Boston Breach
	"Cammy":  "AR",
	"Snoopy": "SMG",
	"Purj":   "SMG",
	"Nastie": "Flex",

	// Carolina Royal Ravens
	"SlasheR": "AR",
	"Nero":    "SMG",
	"Lurqxx":  "SMG",
	"Craze":   "Flex",

	// Cloud9 New York
	"Mack":  "AR",
	"Afro":  "SMG",
	"Beans": "SMG",
	"Vivid": "Flex",

	// FaZe Vegas
	"Drazah": "AR",
	"Abuzah": "SMG",
	"04":     "SMG",
	"Simp":   "Flex",

	// G2 Minnesota
	"Skyz":    "AR",
	"Estreal": "SMG",
	"Kremp":   "SMG",
	"Mamba":   "Flex",

	// Los Angeles Thieves
	"aBeZy": "AR",
	"HyDra": "SMG",
	"Scrap": "SMG",
	"Kenny": "Flex",

	// Miami Heretics
	"MettalZ": "AR",
	"Traixx":  "SMG",
	"SupeR":   "SMG",
	"RenKoR":  "Flex",

	// OpTic Texas
	"Shotzzy":  "SMG",
	"Dashy":    "AR",
	"Huke":     "SMG",
	"Mercules": "Flex",

	// Paris Gentle Mates
	"Envoy":   "AR",
	"Ghosty":  "SMG",
	"Neptune": "SMG",
	"Sib":     "Flex",

	// Riyadh Falcons
	"Cellium": "AR",
	"Pred":    "Flex",
	"Exnid":   "SMG",
	"KiSMET":  "SMG",

	// Toronto KOI
	"ReeaL":       "AR",
	"CleanX":      "SMG",
	"JoeDeceives": "SMG",
	"Insight":     "Flex",

	// Vancouver Surge
	"Abe":    "AR",
	"Gwinn":  "SMG",
	"Lunarz": "SMG",
	"Lqgend": "Flex",
}

// Position returns a player's role, or "Unknown" for unlisted players.
func Position(player string) string {
	if pos, ok := PlayerPositions[player]; ok {
		return pos
	}
	return "Unknown"
}
