//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid profile",
			profile: UserProfile{Name: "Asha Rao", Email: "a@x.com", Phone: "9999999999"},
		},
		{
			name:    "valid profile without phone",
			profile: UserProfile{Name: "Asha Rao", Email: "a@x.com"},
		},
		{
			name:    "missing name",
			profile: UserProfile{Email: "a@x.com"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "invalid email",
			profile: UserProfile{Name: "Asha Rao", Email: "not-an-email"},
			wantErr: true,
			errMsg:  "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResumeRecord_JSONFieldNames(t *testing.T) {
	raw := `{
		"personalInfo": {"location": "Bengaluru, Karnataka, 560001", "summary": "Backend engineer"},
		"experience": [{"company": "Acme", "position": "Engineer", "startDate": "2020-01"}],
		"education": [{"degree": "B.Tech", "institution": "IIT", "graduationDate": "2019-05-01"}, {"degree": "Diploma"}],
		"skills": ["Go", "SQL"]
	}`

	var resume ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &resume))

	assert.Equal(t, "Bengaluru, Karnataka, 560001", resume.PersonalInfo.Location)
	assert.Equal(t, "2020-01", resume.Experience[0].StartDate)
	assert.Empty(t, resume.Experience[0].EndDate)
	assert.Equal(t, "2019-05-01", resume.Education[0].GraduationDate)
	assert.Empty(t, resume.Education[1].Institution)
	assert.Equal(t, []string{"Go", "SQL"}, resume.Skills)
}
