package interpreter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aturuang/backend/internal/config"
)

// systemPrompt is the fixed instruction document sent to the chat provider.
// The closed taxonomies, mood cue mapping, date keyword classes and item-join
// separator are rendered from the tables in internal/config, so prompt and
// validation cannot drift apart. The concrete "today"/"yesterday" dates are
// substituted into the user message so the provider never computes relative
// dates itself.
var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	categories := `"` + strings.Join(config.Categories, `"|"`) + `"`
	moods := strings.Join(config.Moods, ", ")
	yesterdayCues := strings.Join(config.YesterdayCues, "/")
	todayCues := strings.Join(config.TodayCues, "/")

	cues := make([]string, 0, len(config.MoodCues))
	for cue := range config.MoodCues {
		cues = append(cues, cue)
	}
	sort.Strings(cues)
	var moodCueLines strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&moodCueLines, "- %q = %s\n", cue, config.MoodCues[cue])
	}

	return fmt.Sprintf(`Kamu adalah AI yang mencatat pengeluaran dari chat casual bahasa Indonesia/Jaksel.

PARSING RULES:
1. Amount: "20k" = 20000, "1.5jt" = 1500000, "50rb" = 50000, "80ribu" = 80000
2. Jika 1 harga untuk multiple items, gabung jadi 1 expense dengan separator "%s" (contoh: "bebek bakar%sjus tomat")
3. Mood: detect dari context, hanya dari opsi: %s. Tanpa sinyal mood = null
4. Story: ambil reasoning/feeling dari pesan, bukan deskripsi item
5. Place: lokasi pembelian jika disebutkan
6. Date: "%s" = yesterday, "%s" = today, default = today
7. Jika ada multiple expense TERPISAH dengan harga masing-masing, return multiple items

SLANG/GAUL MAPPING:
- "gw/gue/w" = saya
%s- "k/rb/ribu" = 000
- "jt/juta" = 000000

OUTPUT FORMAT (JSON):
{
  "expenses": [{
    "amount": number,
    "item": string,
    "category": %s,
    "place": string|null,
    "withPerson": string|null,
    "mood": string|null,
    "story": string|null,
    "date": "YYYY-MM-DD"
  }]
}

CONTOH:

Input: "beli makan bebek bakar di kantin kantor 80k udah sama minum jus tomat, mahal banget dah, nyesel beli disitu lagi, tapi enak"
Output: {"expenses":[{"amount":80000,"item":"bebek bakar%sjus tomat","category":"food","place":"kantin kantor","mood":"regret","story":"mahal banget tapi enak","date":"2024-02-08"}]}

Input: "grab 45k males jalan kaki hujan"
Output: {"expenses":[{"amount":45000,"item":"grab","category":"transport","place":null,"mood":"reluctant","story":"males jalan kaki karena hujan","date":"2024-02-08"}]}

Input: "kopi 35k sama temen di starbucks seru banget ngobrolnya"
Output: {"expenses":[{"amount":35000,"item":"kopi","category":"coffee","place":"starbucks","withPerson":"temen","mood":"happy","story":"seru ngobrol","date":"2024-02-08"}]}

Input: "makan 20k"
Output: {"expenses":[{"amount":20000,"item":"makan","category":"food","place":null,"mood":null,"story":null,"date":"2024-02-08"}]}

Input: "makan 50k, kopi 25k, grab 30k"
Output: {"expenses":[{"amount":50000,"item":"makan","category":"food","place":null,"mood":null,"story":null,"date":"2024-02-08"},{"amount":25000,"item":"kopi","category":"coffee","place":null,"mood":null,"story":null,"date":"2024-02-08"},{"amount":30000,"item":"grab","category":"transport","place":null,"mood":null,"story":null,"date":"2024-02-08"}]}

Input: "kemarin kopi 35k di starbucks sama pacar"
Output: {"expenses":[{"amount":35000,"item":"kopi","category":"coffee","place":"starbucks","withPerson":"pacar","mood":null,"story":null,"date":"YESTERDAY_DATE"}]}

PENTING:
- Selalu extract expense meskipun pesan panjang/rumit
- Jika ada multiple expense terpisah dengan harga masing2, return multiple items
- Jika 1 harga untuk beberapa item (paket/bundling), gabung jadi 1 item
- Jangan return array kosong kecuali benar-benar tidak ada info expense
- "story" = emosi/alasan, bukan repeat deskripsi item`,
		config.ItemJoinSeparator, config.ItemJoinSeparator, moods,
		yesterdayCues, todayCues,
		moodCueLines.String(),
		categories,
		config.ItemJoinSeparator)
}

// buildUserMessage substitutes the literal reference dates next to the raw
// message.
func buildUserMessage(message, today, yesterday string) string {
	return fmt.Sprintf("Tanggal hari ini: %s\nTanggal kemarin: %s\n\nPesan user:\n%s",
		today, yesterday, message)
}
