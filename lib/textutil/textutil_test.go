package textutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []WordFrequency
	}{
		{
			name:     "empty",
			text:     "",
			expected: []WordFrequency{},
		},
		{
			name: "particles and stopwords",
			text: "소설은 사랑을 말한다. 그리고 사랑이 끝나도 소설의 시간은 흐른다! 그래서 사랑.",
			expected: []WordFrequency{
				{Word: "사랑", Count: 3},
				{Word: "소설", Count: 2},
				{Word: "끝나", Count: 1},
				{Word: "말한다", Count: 1},
				{Word: "시간", Count: 1},
				{Word: "흐른다", Count: 1},
			},
		},
		{
			name: "ties are ordered by word",
			text: "Mystery, mystery; 추리 추리 a 1",
			expected: []WordFrequency{
				{Word: "mystery", Count: 2},
				{Word: "추리", Count: 2},
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			diff := cmp.Diff(test.expected, Analyze(test.text))
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	require.Equal(t,
		[]string{"바다", "학교", "사람", "하나", "2024"},
		Tokenize("바다에서, 학교로 (사람이다) 하나 2024"),
	)
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("국내도서>소설/시/희곡>라이트 노벨", []string{"라이트노벨"}))
	require.True(t, MatchName("국내도서>소설/시/희곡>로맨스소설", []string{"에세이", "로맨스"}))
	require.False(t, MatchName("국내도서>에세이", []string{"로맨스"}))
}
