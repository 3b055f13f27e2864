// Package eureka provides the Eureka client type for package discovery.
//
// Importing the package registers its provider. Options bind from
// eureka.client and eureka.instance; a Cloud Foundry service binding labelled
// p-service-registry, or tagged eureka or discovery, supplies the server URL
// and OAuth credentials.
//
//	eureka:
//	  client:
//	    serviceUrl: http://localhost:8761/eureka/
//	    shouldFetchRegistry: false
//	  instance:
//	    port: 8080
//	    metadataMap:
//	      zone: a
package eureka
