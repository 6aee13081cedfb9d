package wordbank

var shortWords = []string{
	"a", "i", "am", "an", "as", "at", "be", "by", "do", "go", "he", "if", "in", "is", "it", "me",
	"my", "no", "of", "on", "or", "so", "to", "up", "us", "we", "all", "and", "any", "are", "ask",
	"big", "box", "but", "can", "day", "did", "end", "far", "for", "fun", "get", "got", "had", "has",
	"her", "him", "his", "how", "its", "job", "key", "let", "man", "may", "new", "not", "now", "off",
	"old", "one", "our", "out", "own", "pay", "put", "run", "say", "see", "she", "sit", "six", "the",
	"top", "two", "use", "way", "who", "why", "yes", "yet", "you",
}

var mediumWords = []string{
	"also", "back", "body", "both", "call", "city", "come", "down", "each", "even", "fact", "find",
	"form", "from", "give", "good", "hand", "have", "help", "here", "high", "home", "idea", "into",
	"just", "keep", "kind", "know", "land", "last", "life", "line", "long", "look", "made", "make",
	"many", "more", "most", "much", "must", "name", "need", "next", "only", "open", "over", "part",
	"play", "road", "said", "same", "show", "side", "some", "such", "take", "than", "that", "them",
	"then", "they", "this", "time", "turn", "very", "want", "well", "what", "when", "with", "word",
	"work", "year", "about", "after", "again", "along", "began", "being", "below", "could", "every",
	"first", "found", "great", "group", "house", "large", "light", "might", "never", "night", "often",
	"order", "other", "place", "plant", "point", "right", "river", "small", "sound", "spell", "still",
	"study", "their", "there", "these", "thing", "think", "three", "under", "until", "water", "where",
	"which", "while", "world", "would", "write", "answer", "around", "before", "change", "family",
	"follow", "letter", "little", "mother", "number", "people", "school", "should", "simple", "slowly",
}

var longerWords = []string{
	"another", "because", "between", "brought", "certain", "country", "example", "against", "already",
	"believe", "company", "develop", "different", "important", "include", "interest",
	"language", "morning", "nothing", "picture", "problem", "program", "question", "several",
	"something", "sentence", "special", "support", "through", "together", "without", "children",
	"complete", "consider", "continue", "business", "describe", "distance", "exercise", "keyboard",
	"mountain", "national", "personal", "practice", "remember", "science", "surprise", "thousand",
	"understand", "everything", "government", "knowledge", "direction", "difference", "beautiful",
}

var punctuationSentences = []string{
	"Hello, world! How are you today?",
	"Wait... did you hear that sound?",
	"She said, \"Let's go to the park.\"",
	"It's a beautiful day; isn't it?",
	"First, add the flour; then, mix well.",
	"Really? I didn't know that!",
	"The list includes: apples, pears, and plums.",
	"Stop! Look both ways before crossing.",
	"He asked, \"Where is the station?\"",
	"Well, that's that: the end.",
	"Yes, no, maybe; who can say?",
	"Don't forget your keys, phone, and wallet.",
	"The meeting (scheduled for noon) was moved.",
	"Wow! That was fast, wasn't it?",
	"She's here; he's there; they're everywhere.",
	"Note: all fields are required.",
	"Can you believe it? We won!",
	"The dog's bone was under the mat.",
	"Please, sit down; the show is starting.",
	"Is it true? Yes, it is true.",
}

var numberSentences = []string{
	"There are 7 days in a week and 52 weeks in a year.",
	"The train leaves at 9:45 from platform 3.",
	"She bought 12 eggs, 2 loaves, and 4 apples.",
	"Room 101 is on the 1st floor.",
	"The total came to 38.50 after tax.",
	"We drove 240 miles in 4 hours.",
	"Call 555 0199 before 6 tonight.",
	"He scored 98 out of 100 on the test.",
	"The recipe needs 3 cups of flour and 2 eggs.",
	"In 1969, 2 astronauts walked on the moon.",
	"The box weighs 15 kilograms and costs 20 dollars.",
	"Only 1 in 10 people finished all 26 miles.",
	"The meeting starts at 10 and ends at 11:30.",
	"Page 42 has 3 charts and 5 tables.",
	"Set the oven to 180 degrees for 25 minutes.",
}

var quotes = []string{
	"The only way to do great work is to love what you do.",
	"In the middle of difficulty lies opportunity.",
	"Life is what happens when you are busy making other plans.",
	"The future belongs to those who believe in the beauty of their dreams.",
	"It does not matter how slowly you go as long as you do not stop.",
	"Simplicity is the ultimate sophistication.",
	"Well begun is half done.",
	"Knowledge speaks, but wisdom listens.",
	"The journey of a thousand miles begins with one step.",
	"What we think, we become.",
	"Quality is not an act, it is a habit.",
	"Do what you can, with what you have, where you are.",
	"The best time to plant a tree was twenty years ago. The second best time is now.",
	"Practice makes progress, not perfection.",
	"Whatever you are, be a good one.",
	"Act as if what you do makes a difference. It does.",
	"Everything you can imagine is real.",
	"Happiness depends upon ourselves.",
	"Turn your wounds into wisdom.",
	"Little by little, one travels far.",
	"The secret of getting ahead is getting started.",
	"Stay hungry, stay foolish.",
	"Nothing will work unless you do.",
	"A goal without a plan is just a wish.",
	"If you want to lift yourself up, lift up someone else.",
}

// fallbackSentence is used when custom mode receives no text.
const fallbackSentence = "The quick brown fox jumps over the lazy dog."
