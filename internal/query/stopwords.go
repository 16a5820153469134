// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

// generalStopwords covers function words in English and Portuguese.
var generalStopwords = []string{
	// English
	"a", "about", "above", "after", "again", "against", "all", "also", "among", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "but", "by", "can", "could", "did", "do", "does",
	"doing", "down", "during", "each", "either", "few", "for", "from", "further",
	"had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him",
	"himself", "his", "how", "however", "if", "in", "into", "is", "it", "its",
	"itself", "just", "may", "might", "more", "most", "must", "my", "no", "nor",
	"not", "now", "of", "off", "on", "once", "only", "or", "other", "our", "ours",
	"out", "over", "own", "same", "she", "should", "since", "so", "some", "such",
	"than", "that", "the", "their", "theirs", "them", "then", "there", "therefore",
	"these", "they", "this", "those", "through", "thus", "to", "too", "under",
	"until", "up", "upon", "very", "was", "we", "were", "what", "when", "where",
	"whether", "which", "while", "who", "whom", "whose", "why", "will", "with",
	"within", "without", "would", "you", "your", "yours",
	// Portuguese
	"à", "às", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo",
	"as", "até", "com", "como", "contra", "da", "das", "de", "dela", "delas",
	"dele", "deles", "depois", "desde", "dessa", "dessas", "desse", "desses",
	"desta", "destas", "deste", "destes", "do", "dos", "e", "é", "ela", "elas",
	"ele", "eles", "em", "entre", "era", "eram", "essa", "essas", "esse", "esses",
	"esta", "está", "estão", "estas", "este", "estes", "eu", "foi", "foram",
	"havia", "isso", "isto", "já", "lhe", "lhes", "mais", "mas", "mesmo", "muito",
	"muitos", "na", "não", "nas", "nem", "no", "nos", "nós", "num", "numa", "o",
	"os", "ou", "para", "pela", "pelas", "pelo", "pelos", "perante", "por",
	"porque", "quais", "qual", "quando", "que", "quem", "se", "seja", "sem",
	"ser", "será", "seu", "seus", "sob", "sobre", "sua", "suas", "também", "tem",
	"têm", "ter", "toda", "todas", "todo", "todos", "um", "uma", "umas", "uns",
	"vez", "através", "assim", "ainda", "cada", "onde", "pois", "sendo", "sido",
	"podem", "pode", "possui", "outra", "outras", "outro", "outros",
}

// domainStopwords are frequent in academic prose but carry no topic.
var domainStopwords = []string{
	"study", "studies", "paper", "papers", "author", "authors", "article",
	"research", "results", "method", "methods", "analysis", "approach",
	"proposed", "present", "presents", "section", "figure", "table", "based",
	"using", "abstract", "introduction", "conclusion", "conclusions",
	"estudo", "estudos", "artigo", "artigos", "autor", "autores", "trabalho",
	"pesquisa", "resultados", "método", "métodos", "análise", "seção", "figura",
	"tabela", "resumo", "introdução", "conclusão", "conclusões", "partir",
}
