package domain

// DepartmentCode identifies the government unit responsible for a complaint
// category. The set is fixed and closed.
type DepartmentCode string

const (
	DepartmentBWSSB         DepartmentCode = "BWSSB"
	DepartmentBESCOM        DepartmentCode = "BESCOM"
	DepartmentPWD           DepartmentCode = "PWD"
	DepartmentBBMP          DepartmentCode = "BBMP"
	DepartmentAnimalWelfare DepartmentCode = "ANIMAL_WELFARE"
	DepartmentTrafficPolice DepartmentCode = "TRAFFIC_POLICE"
	DepartmentHealth        DepartmentCode = "HEALTH"
)

// Department pairs a code with its human-readable display name.
type Department struct {
	Code DepartmentCode `json:"id"`
	Name string         `json:"name"`
}

// Departments lists every department in presentation order.
func Departments() []Department {
	return []Department{
		{Code: DepartmentBWSSB, Name: "BWSSB (Water Supply)"},
		{Code: DepartmentBESCOM, Name: "BESCOM (Electricity)"},
		{Code: DepartmentPWD, Name: "PWD (Public Works)"},
		{Code: DepartmentBBMP, Name: "BBMP (Municipal Corporation)"},
		{Code: DepartmentAnimalWelfare, Name: "Animal Welfare"},
		{Code: DepartmentTrafficPolice, Name: "Traffic Police"},
		{Code: DepartmentHealth, Name: "Health Department"},
	}
}

// ValidDepartment reports whether code belongs to the closed set.
func ValidDepartment(code DepartmentCode) bool {
	switch code {
	case DepartmentBWSSB, DepartmentBESCOM, DepartmentPWD, DepartmentBBMP,
		DepartmentAnimalWelfare, DepartmentTrafficPolice, DepartmentHealth:
		return true
	}
	return false
}

// DepartmentName returns the display name for code, or the code itself when
// it is not part of the enumeration.
func DepartmentName(code DepartmentCode) string {
	for _, d := range Departments() {
		if d.Code == code {
			return d.Name
		}
	}
	return string(code)
}
