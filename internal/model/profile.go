package model

// Profile holds the free-form profile record stored 1:1 with a user in
// the `user_profiles` table, keyed by email.  Rows only ever come into
// existence through an upsert; a user without a row reads back as empty
// strings rather than an error.
//
// Fields:
//  Email         – owning user's email; unique key of the table.
//  AboutMe       – free text bio.
//  ContactNumber – contact phone number.
//  CompanyName   – company or organisation name.
type Profile struct {
    Email         string // user_profiles.email
    AboutMe       string // user_profiles.about_me
    ContactNumber string // user_profiles.contact_number
    CompanyName   string // user_profiles.company_name
}
