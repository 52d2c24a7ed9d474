// Package erp contains the ERP bounded context: the records the website writes
// into the company's ERP instance and the port used to write them.
//
// Key concepts:
//   - Gateway: Port interface for opening an authenticated ERP session
//   - Session: Port interface for the record operations a session can perform
//   - PartnerRecord, CompanyRecord, UserRecord, LeadRecord: value objects written to the ERP
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - The Odoo adapter lives in the infrastructure layer
package erp
