package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Path
		wantErr bool
	}{
		{
			name: "section and field",
			in:   "my_information.first_name",
			want: FieldPath(SectionMyInformation, "first_name"),
		},
		{
			name: "field with index",
			in:   "my_experience.skills.1",
			want: ItemPath(SectionMyExperience, "skills", 1, ""),
		},
		{
			name: "field with index and subfield",
			in:   "my_experience.work_experience.0.job_title",
			want: ItemPath(SectionMyExperience, "work_experience", 0, "job_title"),
		},
		{
			name: "question field matched exactly",
			in:   "application_questions.Do you have any criminal convictions",
			want: FieldPath(SectionApplicationQuestions, "Do you have any criminal convictions"),
		},
		{name: "no dot", in: "my_information", wantErr: true},
		{name: "unknown section", in: "bogus.first_name", wantErr: true},
		{name: "unknown field", in: "my_information.bogus", wantErr: true},
		{name: "non-numeric index", in: "my_experience.skills.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "my_information.city", FieldPath(SectionMyInformation, "city").String())
	assert.Equal(t, "my_experience.skills[2]", ItemPath(SectionMyExperience, "skills", 2, "").String())
	assert.Equal(t, "my_experience.education[0].degree", ItemPath(SectionMyExperience, "education", 0, "degree").String())
}
