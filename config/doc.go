// Package config loads and validates configuration for the identity core.
//
// Configuration comes from a YAML file plus environment variables (with an
// optional .env file), loaded through viper. All values are validated once at
// startup and are immutable for the process lifetime.
//
// # Example config.yml
//
//	name: nazonexus-api
//	environment: production
//	jwt:
//	  issuer: nazonexus
//	  lifetime_hours: 1
//	  key_path: /var/lib/nazonexus/secret/private.pem
//	cache:
//	  capacity: 256
//	  max_ttl: 1h
//	password:
//	  time: 3
//	  memory: 65536
//	  threads: 4
package config
