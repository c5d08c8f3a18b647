package cefidata

import "strings"

// OpenDAPBase is the dodsC service prefix the portal publishes its
// OPeNDAP URLs under. The portal uses the http scheme here.
const OpenDAPBase = "http://psl.noaa.gov/thredds/dodsC/Projects/CEFI/regional_mom6/cefi_portal/"

// OPeNDAPURL formats the OPeNDAP access URL for a dataset identified by
// its seven tree levels. Pure string formatting: the inputs are joined as
// path segments without consulting the tree.
func OPeNDAPURL(region, subdomain, experimentType, outputFrequency, gridType, releaseDate, fileName string) string {
	return OpenDAPBase + strings.Join([]string{
		region,
		subdomain,
		experimentType,
		outputFrequency,
		gridType,
		releaseDate,
		fileName,
	}, "/")
}
