package population

// First names drawn for generated family members.
var firstNames = []string{
	"Rowan", "Elena", "Marcus", "Vera", "Theron", "Lyra",
	"Aldric", "Isolde", "Gareth", "Celeste",
	"Amara", "Kofi", "Zara", "Jabari", "Nia", "Kwame",
	"Kenji", "Mei", "Hiroshi", "Yuki", "Jin", "Sora",
	"Priya", "Arjun", "Kavya", "Ravi", "Anaya", "Dev",
	"Layla", "Nasir", "Farah", "Khalil", "Zahra", "Omar",
	"Mateo", "Lucia", "Diego", "Carmen", "Rafael", "Sofia",
	"Kaya", "Tala", "Wren", "Sage", "River", "Hazel",
}

var alignments = []string{
	"lawful good", "neutral good", "chaotic good",
	"lawful neutral", "true neutral", "chaotic neutral",
	"lawful evil", "neutral evil", "chaotic evil",
}

var traits = []string{
	"ambitious", "anxious", "boastful", "cheerful", "cunning",
	"curious", "envious", "gentle", "grumpy", "honest",
	"impulsive", "loyal", "meticulous", "nosy", "patient",
	"petty", "proud", "secretive", "stubborn", "witty",
}

var occupations = []string{
	"baker", "blacksmith", "carpenter", "cartographer", "clerk",
	"farmer", "fisher", "gardener", "herbalist", "innkeeper",
	"librarian", "merchant", "midwife", "miner", "musician",
	"physician", "potter", "retired", "student", "tailor",
}

var interests = []string{
	"board games", "card tricks", "cats", "dancing", "dogs",
	"fishing", "gardening", "gossip", "hiking", "knitting",
	"loud music", "old books", "opera", "poetry", "rainy days",
	"sailing", "spicy food", "the sea", "theatre", "woodworking",
}

// Age range of generated individuals, [minAge, maxAge).
const (
	minAge = 6
	maxAge = 86
)
