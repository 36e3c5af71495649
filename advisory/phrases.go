package advisory

import "golang.org/x/text/language"

// adviceKey identifies a placement phrase independent of its wording
type adviceKey int

const (
	adviceClearFloor adviceKey = iota
	adviceBottle
	adviceDrinkware
	adviceDesk
	adviceShelf
	adviceSofa
	adviceCloset
)

// phraseTable holds the wording of every advice and status text for one
// locale
type phraseTable struct {
	advice        map[adviceKey]string
	statusLabel   [3]string
	statusMessage [3]string
}

// phrases maps a supported locale to its phrase table.  Status arrays are
// indexed by hazard.RiskLevel; the critical message takes the hazard count
var phrases = map[language.Tag]phraseTable{
	language.English: {
		advice: map[adviceKey]string{
			adviceClearFloor: "Clear from floor.",
			adviceBottle:     "If water bottle: **Kitchen/Table**. If medicine: **Cabinet**.",
			adviceDrinkware:  "Move to **Kitchen** or **Dining Table**.",
			adviceDesk:       "Place on **Desk**.",
			adviceShelf:      "Store on shelf.",
			adviceSofa:       "Place on **Sofa**.",
			adviceCloset:     "Hang in closet.",
		},
		statusLabel: [3]string{"SAFE ENVIRONMENT", "CAUTION ADVISED", "CRITICAL RISK"},
		statusMessage: [3]string{
			"✅ Status: Area is clear and safe.",
			"⚠️ Caution: Objects found on the floor. Proceed with care.",
			"⚠️ Alert: %d trip hazards detected. Immediate action required.",
		},
	},
	language.Hindi: {
		advice: map[adviceKey]string{
			adviceClearFloor: "फर्श से हटाएं।",
			adviceBottle:     "यदि पानी की बोतल है: **किचन/टेबल**। यदि दवा है: **अलमारी**।",
			adviceDrinkware:  "**किचन** या **डाइनिंग टेबल** पर रखें।",
			adviceDesk:       "**डेस्क** पर रखें।",
			adviceShelf:      "शेल्फ पर रखें।",
			adviceSofa:       "**सोफा** पर रखें।",
			adviceCloset:     "अलमारी में रखें।",
		},
		statusLabel: [3]string{"सुरक्षित क्षेत्र", "सावधानी बरतें", "गंभीर जोखिम"},
		statusMessage: [3]string{
			"✅ स्थिति: क्षेत्र पूरी तरह सुरक्षित है।",
			"⚠️ ध्यान दें: फर्श पर सामान है। संभलकर चलें।",
			"⚠️ चेतावनी: %d खतरे मिले हैं। तुरंत हटाएं।",
		},
	},
}

// phrasesFor returns the phrase table of the locale
func phrasesFor(locale string) phraseTable {
	return phrases[MatchLocale(locale)]
}
