package router

// DocContract is the output layout required for documentation requests.
// It is appended to the guidance of every query classified as a
// documentation request.
const DocContract = `Documentation output contract (must follow exactly for documentation requests):
- Title line: "<Adapter Name> Guide"
- Subtitle line: "For SAP Integration Suite and SAP Cloud Integration"
- Version line: "Version <x.y.z> - <Month YYYY>"
- Add "Table of Contents"
- Use numbered sections and subsection numbering in this sequence:
  1. Introduction
  1.1 Coding Samples
  1.2 Internet Hyperlinks
  2. <Provider/Domain> Integration
  2.1 Introduction
  2.2 <Adapter Name> Adapter
  2.2.1 Features
  2.3 Architectural Overview
  3. Supported Operations
  4. Authentication & Authorization
  4.1 Creating Secure Parameter in Security Material
  4.2 Usage of the Secure Parameter
  5. <Provider/Domain> Configuration3
  6. Receiver Adapter Configuration
  6.1 Connection
  6.2 Processing Configuration
  7. Payload and Dynamic Configuration
  7.1 Message Payloads
  7.2 Dynamic Configuration
  8. Troubleshooting
  9. Sample Scenarios Explained
  10. References
  11. API Deprecation Notice
- Content requirements:
  - Write in SAP help-guide style: precise, neutral, implementation-focused.
  - Include concrete fields/parameters, supported operations, and example scenario bullets.
  - Mention limitations, auth handling, and troubleshooting error mappings (401/400/404 at minimum).
  - Do not skip any section; if unknown, write "Not applicable for current adapter scope."`
