// Package cefidata exposes the CEFI regional ocean model archive as a set
// of catalog query and retrieval tools. It navigates the portal's
// hierarchical option tree (region, subdomain, experiment type, output
// frequency, grid type, release date, variable) with approximate matching
// at every level, crawls the THREDDS catalog for direct dataset access
// URLs, and reads dataset metadata over OPeNDAP, kerchunk reference
// indexes, or local NetCDF files.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, etree/, sqlite/, netcdf/).
package cefidata
